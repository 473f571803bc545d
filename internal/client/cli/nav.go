package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/client/services"
	"github.com/dmitrijs2005/mycloud/internal/common"
)

// Navigate records a navigation request. It may be called from any
// goroutine; the REPL applies it after the current command.
func (a *App) Navigate(route string) {
	a.mu.Lock()
	a.pending = route
	a.mu.Unlock()
}

// flush applies a pending navigation, if any.
func (a *App) flush(ctx context.Context) {
	a.mu.Lock()
	route := a.pending
	a.pending = ""
	a.mu.Unlock()

	if route == "" {
		return
	}
	if err := a.open(ctx, route); err != nil {
		printError(err)
	}
}

// parseRoute maps a view path to its gate route and, for storage views, the
// owner whose files it shows.
func parseRoute(path string) (services.Route, int64, error) {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")

	switch {
	case path == common.RouteSignIn:
		return services.Route{Path: path}, 0, nil
	case path == common.RouteAdmin:
		return services.Route{Path: path, RequireAdmin: true}, 0, nil
	case strings.HasPrefix(path, "/storage/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(path, "/storage/"), 10, 64)
		if err != nil || id <= 0 {
			return services.Route{}, 0, fmt.Errorf("invalid storage id in %q", path)
		}
		return services.Route{Path: path}, id, nil
	default:
		return services.Route{}, 0, fmt.Errorf("unknown view %q", path)
	}
}

// open runs the gate for path and enters the view, or the redirect the gate
// chose instead.
func (a *App) open(ctx context.Context, path string) error {
	r, owner, err := parseRoute(path)
	if err != nil {
		return err
	}

	if r.Path == common.RouteSignIn {
		a.enter(r.Path, 0)
		a.setUserName("")
		printlnFn("Signed out. Use 'login' or 'register'.")
		return nil
	}

	d := a.gate.Check(ctx, r)
	if !d.Allowed() {
		return a.deny(ctx, r, d)
	}

	a.enter(r.Path, owner)
	printSuccess("Opened " + r.Path)

	if owner != 0 {
		return a.List(ctx)
	}
	return a.Users(ctx)
}

// deny moves to the gate's redirect. The redirect was decided by the check
// that just ran, so it is entered without another check.
func (a *App) deny(ctx context.Context, r services.Route, d services.Decision) error {
	a.log.Debug(ctx, "navigation denied", "path", r.Path, "redirect", d.Redirect)

	_, owner, _ := parseRoute(d.Redirect)
	a.enter(d.Redirect, owner)
	if d.Redirect == common.RouteSignIn {
		a.setUserName("")
	}
	return fmt.Errorf("%w: %s (redirected to %s)", common.ErrAccessDenied, r.Path, d.Redirect)
}

func (a *App) enter(route string, owner int64) {
	a.mu.Lock()
	a.route = route
	a.owner = owner
	a.mu.Unlock()
}

func (a *App) currentOwner() (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.owner == 0 {
		return 0, common.ErrNoOwner
	}
	return a.owner, nil
}

// Open handles "open <view>".
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open /admin | /storage/<id> | /signin")
	}
	return a.open(ctx, args[0])
}

// Storage handles "storage [id]"; without an id it opens the caller's own.
func (a *App) Storage(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		s := a.sessions.Session(ctx)
		if !s.Authenticated() {
			return common.ErrNotLoggedIn
		}
		return a.open(ctx, fmt.Sprintf(common.RouteStorage, s.UserID))
	case 1:
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.open(ctx, fmt.Sprintf(common.RouteStorage, id))
	default:
		return usage("storage [user id]")
	}
}

// Admin handles "admin".
func (a *App) Admin(ctx context.Context) error {
	return a.open(ctx, common.RouteAdmin)
}
