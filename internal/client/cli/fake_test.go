package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mycloud/internal/client/clipboard"
	"github.com/dmitrijs2005/mycloud/internal/client/config"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/client/services"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"github.com/fatih/color"
)

type fakeSessions struct {
	session models.Session
	valid   bool
	info    models.UserInfo
	infoErr error

	loginErr    error
	loginUser   string
	loginPass   string
	remember    bool
	registerReq models.RegistrationRequest
	registerErr error
	signOuts    int
	ensures     int
}

func (f *fakeSessions) CheckValidity(context.Context) bool { return f.valid }
func (f *fakeSessions) Refresh(context.Context) bool { return false }
func (f *fakeSessions) EnsureValid(context.Context) bool {
	f.ensures++
	return f.valid
}
func (f *fakeSessions) Logout(context.Context) { f.session = models.Session{} }
func (f *fakeSessions) SaveCredentials(context.Context, string, string) {}
func (f *fakeSessions) Session(context.Context) models.Session { return f.session }
func (f *fakeSessions) WhoAmI(context.Context) (models.UserInfo, error) { return f.info, f.infoErr }
func (f *fakeSessions) SignOut(ctx context.Context) { f.signOuts++; f.Logout(ctx) }
func (f *fakeSessions) Login(_ context.Context, u, p string, remember bool) (models.Session, error) {
	f.loginUser, f.loginPass, f.remember = u, p, remember
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	f.session = models.Session{Token: "tok", Role: "user", UserID: 7}
	f.valid = true
	return f.session, nil
}
func (f *fakeSessions) Register(_ context.Context, r models.RegistrationRequest) (models.User, error) {
	f.registerReq = r
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	return models.User{ID: 9, Username: r.Username}, nil
}

type fakeGate struct {
	mu       sync.Mutex
	decision services.Decision
	checked  []services.Route
}

func (g *fakeGate) Check(_ context.Context, r services.Route) services.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checked = append(g.checked, r)
	return g.decision
}

type fakeFiles struct {
	files     []models.FileResource
	err       error
	listOwner int64
	upload    models.UploadRequest
	uploadBuf string
	deleted   int64
	renamed   string
	download  *models.Download
	link      models.ShareLink
	fetched   string
}

func (f *fakeFiles) List(_ context.Context, owner int64) ([]models.FileResource, error) {
	f.listOwner = owner
	return f.files, f.err
}
func (f *fakeFiles) Upload(_ context.Context, owner int64, r models.UploadRequest) ([]models.FileResource, error) {
	f.upload = r
	b, _ := io.ReadAll(r.Content)
	f.uploadBuf = string(b)
	return f.files, f.err
}
func (f *fakeFiles) Delete(_ context.Context, owner, id int64) error {
	f.deleted = id
	return f.err
}
func (f *fakeFiles) Rename(_ context.Context, owner, id int64, name string) (models.FileResource, error) {
	f.renamed = name
	return models.FileResource{ID: id, OriginalName: name}, f.err
}
func (f *fakeFiles) CreateDownloadLink(_ context.Context, owner, id int64) (models.ShareLink, error) {
	return f.link, f.err
}
func (f *fakeFiles) Download(context.Context, int64, int64) (*models.Download, error) {
	return f.download, f.err
}
func (f *fakeFiles) View(context.Context, int64, int64) (*models.Download, error) {
	return f.download, f.err
}
func (f *fakeFiles) FetchShared(_ context.Context, link string) (*models.Download, error) {
	f.fetched = link
	return f.download, f.err
}
func (f *fakeFiles) Cached(int64) []models.FileResource { return f.files }

type fakeAdmin struct {
	users   []models.User
	err     error
	deleted int64
	roleID  int64
	role    string
}

func (f *fakeAdmin) ListUsers(context.Context) ([]models.User, error) { return f.users, f.err }
func (f *fakeAdmin) DeleteUser(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}
func (f *fakeAdmin) ChangeRole(_ context.Context, id int64, role string) (models.User, error) {
	f.roleID, f.role = id, role
	return models.User{ID: id, Username: "bob", Role: role}, f.err
}

type fakeSink struct {
	name string
	data string
	err  error
}

func (s *fakeSink) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, _ := io.ReadAll(r)
	s.name, s.data = name, string(b)
	return "/out/" + name, nil
}

type fakeLinks struct {
	method clipboard.Method
	text   string
}

func (l *fakeLinks) Deliver(_ context.Context, text string) (clipboard.Method, error) {
	l.text = text
	return l.method, nil
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error { b.closed = true; return nil }

type testApp struct {
	*App
	sessions *fakeSessions
	gate     *fakeGate
	files    *fakeFiles
	admin    *fakeAdmin
	sink     *fakeSink
	links    *fakeLinks
	out      *bytes.Buffer
	printed  *[]string
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	color.NoColor = true

	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	ta := &testApp{
		sessions: &fakeSessions{},
		gate:     &fakeGate{decision: services.Decision{State: services.Granted}},
		files:    &fakeFiles{},
		admin:    &fakeAdmin{},
		sink:     &fakeSink{},
		links:    &fakeLinks{},
		out:      &bytes.Buffer{},
		printed:  &printed,
	}
	ta.App = &App{
		config:   cfg,
		log:      logging.Nop(),
		sessions: ta.sessions,
		gate:     ta.gate,
		files:    ta.files,
		admin:    ta.admin,
		sink:     ta.sink,
		links:    ta.links,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      ta.out,
		route:    common.RouteSignIn,
	}
	return ta
}

// loggedIn puts the app into the storage view of owner with a valid session.
func (ta *testApp) loggedIn(owner int64, role string) *testApp {
	ta.sessions.session = models.Session{Token: "tok", Role: role, UserID: owner}
	ta.sessions.valid = true
	ta.enter(fmt.Sprintf(common.RouteStorage, owner), owner)
	return ta
}

func (ta *testApp) printedText() string {
	return strings.Join(*ta.printed, "\n")
}
