package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/client/services"
	"github.com/dmitrijs2005/mycloud/internal/common"
)

// adminCommand revalidates the session. When the stored role is not admin
// the gate decides, since the role may have changed on the server.
func (a *App) adminCommand(ctx context.Context) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	if a.isAdmin(ctx) {
		return nil
	}

	r := services.Route{Path: common.RouteAdmin, RequireAdmin: true}
	if d := a.gate.Check(ctx, r); !d.Allowed() {
		return a.deny(ctx, r, d)
	}
	return nil
}

// Users prints every account.
func (a *App) Users(ctx context.Context) error {
	if err := a.adminCommand(ctx); err != nil {
		return err
	}

	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		return err
	}
	writeUsers(a.out, users)
	return nil
}

// SetRole handles "setrole <user id> <role>".
func (a *App) SetRole(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("setrole <user id> <role>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.adminCommand(ctx); err != nil {
		return err
	}

	u, err := a.admin.ChangeRole(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("User %s is now %s", u.Username, u.Role))
	return nil
}

// DeleteUser handles "deluser <user id>" after a confirmation prompt.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("deluser <user id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.adminCommand(ctx); err != nil {
		return err
	}

	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete user %d and all their files?", id), false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.admin.DeleteUser(ctx, id); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Deleted user %d", id))
	return nil
}
