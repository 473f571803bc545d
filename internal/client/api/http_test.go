package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method    string
	path      string
	auth      string
	requestID string
}

type fakeService struct {
	mu   sync.Mutex
	seen []recorded
}

func (f *fakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.seen = append(f.seen, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get("X-Request-ID"),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeService) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[len(f.seen)-1]
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router) (*HTTPClient, *fakeService) {
	t.Helper()
	fs := &fakeService{}
	root := chi.NewRouter()
	root.Use(fs.record)
	root.Mount("/", r)

	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, 5*time.Second, logging.Nop())
	require.NoError(t, err)
	return c, fs
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient("", time.Second, logging.Nop())
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/token/login/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["username"] == "alice" && in["password"] == "pw" {
			writeJSON(w, http.StatusOK, map[string]string{"auth_token": "tok-1"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
	})
	c, fs := newTestClient(t, r)
	ctx := context.Background()

	tok, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Empty(t, fs.last().auth)
	assert.NotEmpty(t, fs.last().requestID)

	_, err = c.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Contains(t, err.Error(), "Unable to log in")
}

func TestLogin_EmptyToken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/token/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	c, _ := newTestClient(t, r)

	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, apierr.ErrAuth)
}

func TestWhoAmI_SendsTokenAndUniqueRequestIDs(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/user_info/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token good" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		writeJSON(w, http.StatusOK, models.UserInfo{ID: 7, Username: "alice", Role: "user"})
	})
	c, fs := newTestClient(t, r)
	ctx := context.Background()

	info, err := c.WhoAmI(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.ID)
	first := fs.last()
	assert.Equal(t, "Token good", first.auth)

	_, err = c.WhoAmI(ctx, "bad")
	require.ErrorIs(t, err, apierr.ErrAuth)
	var ae *apierr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid token.", ae.Record.Message)
	assert.Equal(t, http.StatusUnauthorized, ae.Record.Code)
	assert.NotEqual(t, first.requestID, fs.last().requestID)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second, logging.Nop())
	require.NoError(t, err)

	_, err = c.WhoAmI(context.Background(), "t")
	require.ErrorIs(t, err, apierr.ErrNetwork)
}

func TestContextCanceled(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/user_info/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.UserInfo{})
	})
	c, _ := newTestClient(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.WhoAmI(ctx, "t")
	require.ErrorIs(t, err, apierr.ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMalformedResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/storage/{owner}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	c, _ := newTestClient(t, r)

	_, err := c.ListFiles(context.Background(), "t", 7)
	require.ErrorIs(t, err, apierr.ErrHTTP)
}

func TestListFilesOffsetlessTimestamps(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/storage/{owner}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id_file":1,"id_user":7,"original_name":"a","comment":"c","size":1,` +
			`"upload_date":"2024-01-01T00:00:00.123456","last_download_date":"2024-01-02T10:00:00"}]`))
	})
	c, _ := newTestClient(t, r)

	got, err := c.ListFiles(context.Background(), "t", 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 123456000, time.UTC), got[0].UploadDate)
	require.NotNil(t, got[0].LastDownloadDate)
	assert.Equal(t, 10, got[0].LastDownloadDate.Hour())
}

func TestFileEndpoints(t *testing.T) {
	files := []models.FileResource{{ID: 1, OwnerID: 7, OriginalName: "a.txt", Comment: "c", Size: 3}}

	r := chi.NewRouter()
	r.Get("/api/storage/{owner}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", chi.URLParam(r, "owner"))
		writeJSON(w, http.StatusOK, files)
	})
	r.Post("/api/storage/{owner}/", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, "b.txt", hdr.Filename)
		assert.Equal(t, "greeting", r.FormValue("comment"))

		out := append(files, models.FileResource{ID: 2, OwnerID: 7, OriginalName: hdr.Filename, Comment: r.FormValue("comment"), Size: int64(len(body))})
		writeJSON(w, http.StatusCreated, out)
	})
	r.Delete("/api/storage/{owner}/{file}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Patch("/api/storage/{owner}/{file}/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["name"] == "taken.txt" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "File with this name already exists"})
			return
		}
		writeJSON(w, http.StatusOK, models.FileResource{ID: 1, OwnerID: 7, OriginalName: in["name"]})
	})
	r.Post("/api/storage/link/{owner}/{file}/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"link": "http://x/api/storage/download/tok/"})
	})

	c, fs := newTestClient(t, r)
	ctx := context.Background()

	got, err := c.ListFiles(ctx, "t", 7)
	require.NoError(t, err)
	assert.Equal(t, files, got)

	got, err = c.UploadFile(ctx, "t", 7, models.UploadRequest{Name: "b.txt", Content: strings.NewReader("hello"), Comment: "greeting"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/api/storage/7/", fs.last().path)

	require.NoError(t, c.DeleteFile(ctx, "t", 7, 1))
	assert.Equal(t, recorded{method: "DELETE", path: "/api/storage/7/1/", auth: "Token t", requestID: fs.last().requestID}, fs.last())

	f, err := c.RenameFile(ctx, "t", 7, 1, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", f.OriginalName)

	_, err = c.RenameFile(ctx, "t", 7, 1, "taken.txt")
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Contains(t, err.Error(), "File with this name already exists")

	link, err := c.CreateLink(ctx, "t", 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "http://x/api/storage/download/tok/", link)
}

func TestStreamingEndpoints(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/storage/download/{file}/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Filename", "my%20file.txt")
		_, _ = w.Write([]byte("content"))
	})
	r.Get("/api/storage/view/{owner}/{file}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("inline"))
	})
	c, fs := newTestClient(t, r)
	ctx := context.Background()

	body, hdr, err := c.DownloadFile(ctx, "t", 5)
	require.NoError(t, err)
	b, _ := io.ReadAll(body)
	require.NoError(t, body.Close())
	assert.Equal(t, "content", string(b))
	assert.Equal(t, "my%20file.txt", hdr.Get("X-Filename"))
	assert.Equal(t, "Token t", fs.last().auth)

	body, _, err = c.ViewFile(ctx, 7, 5)
	require.NoError(t, err)
	b, _ = io.ReadAll(body)
	require.NoError(t, body.Close())
	assert.Equal(t, "inline", string(b))

	body, _, err = c.FetchShared(ctx, "/api/storage/download/tok/")
	require.NoError(t, err)
	_ = body.Close()
	assert.Equal(t, "/api/storage/download/tok/", fs.last().path)
	assert.Empty(t, fs.last().auth)

	_, _, err = c.FetchShared(ctx, "")
	require.ErrorIs(t, err, apierr.ErrValidation)
}

func TestUserEndpoints(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		var in models.RegistrationRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Username == "taken" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"user with this username already exists."}})
			return
		}
		writeJSON(w, http.StatusCreated, models.User{ID: 9, Username: in.Username, Email: in.Email, Role: "user"})
	})
	r.Get("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.User{{ID: 1, Username: "root", Role: "admin"}})
	})
	r.Delete("/api/users/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "404" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found."})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Patch("/api/users/{id}/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusOK, models.User{ID: 3, Role: in["role"]})
	})
	r.Post("/auth/token/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c, fs := newTestClient(t, r)
	ctx := context.Background()

	u, err := c.Register(ctx, models.RegistrationRequest{Email: "a@b.c", Username: "alice", Fullname: "Alice", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), u.ID)
	assert.Empty(t, fs.last().auth)

	_, err = c.Register(ctx, models.RegistrationRequest{Username: "taken"})
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Contains(t, err.Error(), "username: user with this username already exists.")

	users, err := c.ListUsers(ctx, "t")
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, c.DeleteUser(ctx, "t", 3))
	err = c.DeleteUser(ctx, "t", 404)
	require.ErrorIs(t, err, apierr.ErrHTTP)
	assert.True(t, apierr.IsNotFound(err))

	u, err = c.ChangeRole(ctx, "t", 3, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	require.NoError(t, c.Logout(ctx, "t"))
	assert.Equal(t, "Token t", fs.last().auth)
}

func TestRequestIDSeam(t *testing.T) {
	orig := newRequestID
	newRequestID = func() string { return "fixed-id" }
	defer func() { newRequestID = orig }()

	r := chi.NewRouter()
	r.Post("/auth/token/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c, fs := newTestClient(t, r)

	require.NoError(t, c.Logout(context.Background(), "t"))
	assert.Equal(t, "fixed-id", fs.last().requestID)
}
