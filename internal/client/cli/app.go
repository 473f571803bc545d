package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/clipboard"
	"github.com/dmitrijs2005/mycloud/internal/client/config"
	"github.com/dmitrijs2005/mycloud/internal/client/export"
	"github.com/dmitrijs2005/mycloud/internal/client/services"
	"github.com/dmitrijs2005/mycloud/internal/client/session"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/filex"
	"github.com/dmitrijs2005/mycloud/internal/logging"
)

// linkDeliverer hands a share link to the user.
type linkDeliverer interface {
	Deliver(ctx context.Context, text string) (clipboard.Method, error)
}

type App struct {
	config   *config.Config
	log      logging.Logger
	sessions services.SessionManager
	gate     services.AccessGate
	files    services.FileManager
	admin    services.AdminManager
	sink     export.Sink
	links    linkDeliverer
	reader   *bufio.Reader
	out      io.Writer
	teardown func() error

	mu       sync.Mutex
	route    string
	owner    int64
	pending  string
	userName string
}

// NewApp opens the credential store under cfg.DataDir and wires every
// manager around one API client and one store.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if _, err := filex.EnsureDir(filepath.Dir(c.StorePath())); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	store := session.NewStore(c.StorePath(), log)
	if err := store.Init(ctx); err != nil {
		log.Warn(ctx, "credential store unavailable, sessions will not persist", "error", err)
	}

	apiClient, err := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, log)
	if err != nil {
		_ = store.Teardown()
		return nil, err
	}

	sink, err := export.New(ctx, c)
	if err != nil {
		_ = store.Teardown()
		return nil, err
	}

	a := &App{
		config:   c,
		log:      log.With("component", "cli"),
		sink:     sink,
		links:    clipboard.New(os.Stdout),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		teardown: store.Teardown,
		route:    common.RouteSignIn,
	}

	a.sessions = services.NewSessionManager(apiClient, store, a, log)
	a.gate = services.NewAccessGate(apiClient, store, log)
	a.files = services.NewFileManager(apiClient, store, services.NewFileCache(), log)
	a.admin = services.NewAdminManager(apiClient, store, log)

	return a, nil
}

// Run resumes a saved session when one is still valid and then blocks in
// the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.teardown != nil {
			if err := a.teardown(); err != nil {
				a.log.Warn(ctx, "closing credential store", "error", err)
			}
		}
	}()

	printlnFn("Welcome to mycloud CLI (type 'help' for commands)")

	if a.isLoggedIn(ctx) && a.sessions.EnsureValid(ctx) {
		if info, err := a.sessions.WhoAmI(ctx); err == nil {
			a.setUserName(info.Username)
		}
		a.Navigate(a.sessions.Session(ctx).LandingRoute())
		a.flush(ctx)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.sessions.Session(ctx).Authenticated()
}

func (a *App) isAdmin(ctx context.Context) bool {
	return a.sessions.Session(ctx).IsAdmin()
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.userName == "" {
		return a.route
	}
	return fmt.Sprintf("%s %s", a.userName, a.route)
}
