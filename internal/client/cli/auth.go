package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// Register prompts for the account fields and creates the account. It does
// not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.sessions.Register(ctx, models.RegistrationRequest{
		Email:    email,
		Username: userName,
		Fullname: fullName,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Account %q created, use 'login' to sign in", u.Username))
	return nil
}

// Login prompts for credentials and whether to remember them, then signs
// in. The session manager requests the landing view.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getConfirmation(a.reader, "Remember credentials on this device?", a.config.RememberCredentials, a.out)
	if err != nil {
		return err
	}

	s, err := a.sessions.Login(ctx, userName, string(password), remember)
	if err != nil {
		return err
	}

	a.setUserName(userName)
	printSuccess(fmt.Sprintf("Logged in as %s (role %s)", userName, s.Role))
	return nil
}

// Logout signs out remotely when possible and always locally.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return common.ErrNotLoggedIn
	}
	a.sessions.SignOut(ctx)
	return nil
}

// WhoAmI prints the account behind the current token.
func (a *App) WhoAmI(ctx context.Context) error {
	info, err := a.sessions.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id: %d\nusername: %s\nfull name: %s\nemail: %s\nrole: %s\nsuperuser: %t\n",
		info.ID, info.Username, info.Fullname, info.Email, info.Role, info.IsSuperuser)
	return nil
}

// ensureSession revalidates the session before a command that needs one.
// A failed refresh has already logged the user out.
func (a *App) ensureSession(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return common.ErrNotLoggedIn
	}
	if !a.sessions.EnsureValid(ctx) {
		return fmt.Errorf("%w: session expired", common.ErrNotLoggedIn)
	}
	return nil
}
