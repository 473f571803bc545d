package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/client/session"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newStore(t *testing.T) *session.Store {
	t.Helper()
	s := session.NewStore(filepath.Join(t.TempDir(), "mycloud.db"), logging.Nop())
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Teardown() })
	return s
}

type navRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (n *navRecorder) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *navRecorder) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

var (
	errUnauthorized = &apierr.Error{Kind: apierr.KindAuth, Record: apierr.ErrorRecord{Message: "Invalid token.", Code: 401}}
	errNetwork      = apierr.Network(errors.New("connection refused"), "")
)

// ---- fake client ----

// fakeClient implements api.Client. Unset funcs return zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginFn       func(ctx context.Context, username, password string) (string, error)
	LogoutFn      func(ctx context.Context, token string) error
	WhoAmIFn      func(ctx context.Context, token string) (models.UserInfo, error)
	RegisterFn    func(ctx context.Context, req models.RegistrationRequest) (models.User, error)
	ListFilesFn   func(ctx context.Context, token string, owner int64) ([]models.FileResource, error)
	UploadFileFn  func(ctx context.Context, token string, owner int64, req models.UploadRequest) ([]models.FileResource, error)
	DeleteFileFn  func(ctx context.Context, token string, owner, fileID int64) error
	RenameFileFn  func(ctx context.Context, token string, owner, fileID int64, name string) (models.FileResource, error)
	DownloadFn    func(ctx context.Context, token string, fileID int64) (io.ReadCloser, http.Header, error)
	CreateLinkFn  func(ctx context.Context, token string, owner, fileID int64) (string, error)
	ViewFileFn    func(ctx context.Context, owner, fileID int64) (io.ReadCloser, http.Header, error)
	FetchSharedFn func(ctx context.Context, link string) (io.ReadCloser, http.Header, error)
	ListUsersFn   func(ctx context.Context, token string) ([]models.User, error)
	DeleteUserFn  func(ctx context.Context, token string, id int64) error
	ChangeRoleFn  func(ctx context.Context, token string, id int64, role string) (models.User, error)
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	f.hit("Login")
	if f.LoginFn == nil {
		return "", nil
	}
	return f.LoginFn(ctx, username, password)
}

func (f *fakeClient) Logout(ctx context.Context, token string) error {
	f.hit("Logout")
	if f.LogoutFn == nil {
		return nil
	}
	return f.LogoutFn(ctx, token)
}

func (f *fakeClient) WhoAmI(ctx context.Context, token string) (models.UserInfo, error) {
	f.hit("WhoAmI")
	if f.WhoAmIFn == nil {
		return models.UserInfo{}, nil
	}
	return f.WhoAmIFn(ctx, token)
}

func (f *fakeClient) Register(ctx context.Context, req models.RegistrationRequest) (models.User, error) {
	f.hit("Register")
	if f.RegisterFn == nil {
		return models.User{}, nil
	}
	return f.RegisterFn(ctx, req)
}

func (f *fakeClient) ListFiles(ctx context.Context, token string, owner int64) ([]models.FileResource, error) {
	f.hit("ListFiles")
	if f.ListFilesFn == nil {
		return nil, nil
	}
	return f.ListFilesFn(ctx, token, owner)
}

func (f *fakeClient) UploadFile(ctx context.Context, token string, owner int64, req models.UploadRequest) ([]models.FileResource, error) {
	f.hit("UploadFile")
	if f.UploadFileFn == nil {
		return nil, nil
	}
	return f.UploadFileFn(ctx, token, owner, req)
}

func (f *fakeClient) DeleteFile(ctx context.Context, token string, owner, fileID int64) error {
	f.hit("DeleteFile")
	if f.DeleteFileFn == nil {
		return nil
	}
	return f.DeleteFileFn(ctx, token, owner, fileID)
}

func (f *fakeClient) RenameFile(ctx context.Context, token string, owner, fileID int64, name string) (models.FileResource, error) {
	f.hit("RenameFile")
	if f.RenameFileFn == nil {
		return models.FileResource{}, nil
	}
	return f.RenameFileFn(ctx, token, owner, fileID, name)
}

func (f *fakeClient) DownloadFile(ctx context.Context, token string, fileID int64) (io.ReadCloser, http.Header, error) {
	f.hit("DownloadFile")
	if f.DownloadFn == nil {
		return http.NoBody, http.Header{}, nil
	}
	return f.DownloadFn(ctx, token, fileID)
}

func (f *fakeClient) CreateLink(ctx context.Context, token string, owner, fileID int64) (string, error) {
	f.hit("CreateLink")
	if f.CreateLinkFn == nil {
		return "", nil
	}
	return f.CreateLinkFn(ctx, token, owner, fileID)
}

func (f *fakeClient) ViewFile(ctx context.Context, owner, fileID int64) (io.ReadCloser, http.Header, error) {
	f.hit("ViewFile")
	if f.ViewFileFn == nil {
		return http.NoBody, http.Header{}, nil
	}
	return f.ViewFileFn(ctx, owner, fileID)
}

func (f *fakeClient) FetchShared(ctx context.Context, link string) (io.ReadCloser, http.Header, error) {
	f.hit("FetchShared")
	if f.FetchSharedFn == nil {
		return http.NoBody, http.Header{}, nil
	}
	return f.FetchSharedFn(ctx, link)
}

func (f *fakeClient) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	f.hit("ListUsers")
	if f.ListUsersFn == nil {
		return nil, nil
	}
	return f.ListUsersFn(ctx, token)
}

func (f *fakeClient) DeleteUser(ctx context.Context, token string, id int64) error {
	f.hit("DeleteUser")
	if f.DeleteUserFn == nil {
		return nil
	}
	return f.DeleteUserFn(ctx, token, id)
}

func (f *fakeClient) ChangeRole(ctx context.Context, token string, id int64, role string) (models.User, error) {
	f.hit("ChangeRole")
	if f.ChangeRoleFn == nil {
		return models.User{}, nil
	}
	return f.ChangeRoleFn(ctx, token, id, role)
}
