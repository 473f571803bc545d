package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"github.com/dmitrijs2005/mycloud/internal/netx"
	"github.com/google/uuid"
)

type HTTPClient struct {
	base *url.URL
	http *http.Client
	log  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// newRequestID is a seam for tests.
var newRequestID = uuid.NewString

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	base, err := netx.ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log.With("component", "api"),
	}, nil
}

// BaseURL returns the service root the client was built for.
func (c *HTTPClient) BaseURL() *url.URL {
	u := *c.base
	return &u
}

type call struct {
	method      string
	url         string
	token       string
	body        io.Reader
	contentType string
	context     string
}

// send performs the request and returns the response for any 2xx status.
// Other statuses are classified and the body is closed.
func (c *HTTPClient) send(ctx context.Context, cl call) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, cl.body)
	if err != nil {
		return nil, apierr.Network(err, cl.context)
	}

	reqID := newRequestID()
	req.Header.Set(common.RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.AuthScheme+" "+cl.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", cl.method, "url", cl.url, "request_id", reqID, "error", err)
		return nil, apierr.Network(err, cl.context)
	}
	c.log.Debug(ctx, "request done",
		"method", cl.method, "url", cl.url, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, apierr.FromResponse(resp, cl.context)
	}
	return resp, nil
}

// do sends cl and decodes a JSON body into out when out is not nil.
func (c *HTTPClient) do(ctx context.Context, cl call, out any) error {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apierr.Error{
			Kind:   apierr.KindHTTP,
			Record: apierr.ErrorRecord{Message: "malformed response: " + err.Error(), Code: resp.StatusCode, Details: "context: " + cl.context},
			Err:    err,
		}
	}
	return nil
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (c *HTTPClient) endpoint(format string, args ...any) string {
	return netx.Endpoint(c.base, fmt.Sprintf(format, args...))
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := jsonBody(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", apierr.Validation(err.Error(), "login")
	}

	var out struct {
		AuthToken string `json:"auth_token"`
	}
	err = c.do(ctx, call{
		method: http.MethodPost, url: c.endpoint("/auth/token/login/"),
		body: body, contentType: "application/json", context: "login",
	}, &out)
	if err != nil {
		return "", err
	}
	if out.AuthToken == "" {
		return "", &apierr.Error{Kind: apierr.KindAuth, Record: apierr.Classify("empty auth token", "login")}
	}
	return out.AuthToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		method: http.MethodPost, url: c.endpoint("/auth/token/logout/"),
		token: token, context: "logout",
	}, nil)
}

func (c *HTTPClient) WhoAmI(ctx context.Context, token string) (models.UserInfo, error) {
	var info models.UserInfo
	err := c.do(ctx, call{
		method: http.MethodGet, url: c.endpoint("/api/users/user_info/"),
		token: token, context: "user info",
	}, &info)
	return info, err
}

func (c *HTTPClient) Register(ctx context.Context, r models.RegistrationRequest) (models.User, error) {
	var u models.User
	body, err := jsonBody(r)
	if err != nil {
		return u, apierr.Validation(err.Error(), "register")
	}
	err = c.do(ctx, call{
		method: http.MethodPost, url: c.endpoint("/api/users/"),
		body: body, contentType: "application/json", context: "register",
	}, &u)
	return u, err
}

func (c *HTTPClient) ListFiles(ctx context.Context, token string, owner int64) ([]models.FileResource, error) {
	var files []models.FileResource
	err := c.do(ctx, call{
		method: http.MethodGet, url: c.endpoint("/api/storage/%d", owner),
		token: token, context: "list files",
	}, &files)
	return files, err
}

// UploadFile streams req as multipart/form-data with the fields "file" and
// "comment".
func (c *HTTPClient) UploadFile(ctx context.Context, token string, owner int64, r models.UploadRequest) ([]models.FileResource, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUpload(mw, r)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	var files []models.FileResource
	err := c.do(ctx, call{
		method: http.MethodPost, url: c.endpoint("/api/storage/%d/", owner),
		token: token, body: pr, contentType: mw.FormDataContentType(), context: "upload",
	}, &files)
	// unblocks the writer goroutine if the request ended before the body was read
	_ = pr.CloseWithError(io.ErrClosedPipe)
	return files, err
}

func writeUpload(mw *multipart.Writer, r models.UploadRequest) error {
	part, err := mw.CreateFormFile("file", r.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r.Content); err != nil {
		return err
	}
	return mw.WriteField("comment", r.Comment)
}

func (c *HTTPClient) DeleteFile(ctx context.Context, token string, owner, fileID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete, url: c.endpoint("/api/storage/%d/%d/", owner, fileID),
		token: token, context: "delete file",
	}, nil)
}

func (c *HTTPClient) RenameFile(ctx context.Context, token string, owner, fileID int64, name string) (models.FileResource, error) {
	var f models.FileResource
	body, err := jsonBody(map[string]string{"name": name})
	if err != nil {
		return f, apierr.Validation(err.Error(), "rename")
	}
	err = c.do(ctx, call{
		method: http.MethodPatch, url: c.endpoint("/api/storage/%d/%d/", owner, fileID),
		token: token, body: body, contentType: "application/json", context: "rename",
	}, &f)
	return f, err
}

func (c *HTTPClient) stream(ctx context.Context, cl call) (io.ReadCloser, http.Header, error) {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Header, nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, token string, fileID int64) (io.ReadCloser, http.Header, error) {
	return c.stream(ctx, call{
		method: http.MethodGet, url: c.endpoint("/api/storage/download/%d/", fileID),
		token: token, context: "download",
	})
}

func (c *HTTPClient) CreateLink(ctx context.Context, token string, owner, fileID int64) (string, error) {
	var out struct {
		Link string `json:"link"`
	}
	err := c.do(ctx, call{
		method: http.MethodPost, url: c.endpoint("/api/storage/link/%d/%d/", owner, fileID),
		token: token, context: "share link",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Link, nil
}

// ViewFile fetches the inline rendition of a file. The endpoint needs no token.
func (c *HTTPClient) ViewFile(ctx context.Context, owner, fileID int64) (io.ReadCloser, http.Header, error) {
	return c.stream(ctx, call{
		method: http.MethodGet, url: c.endpoint("/api/storage/view/%d/%d/", owner, fileID),
		context: "view",
	})
}

// FetchShared downloads a share link without authentication. Relative links
// resolve against the base URL.
func (c *HTTPClient) FetchShared(ctx context.Context, link string) (io.ReadCloser, http.Header, error) {
	u, err := netx.Resolve(c.base, link)
	if err != nil {
		return nil, nil, apierr.Validation(err.Error(), "fetch shared")
	}
	return c.stream(ctx, call{method: http.MethodGet, url: u, context: "fetch shared"})
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{
		method: http.MethodGet, url: c.endpoint("/api/users/"),
		token: token, context: "list users",
	}, &users)
	return users, err
}

func (c *HTTPClient) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete, url: c.endpoint("/api/users/%d/", id),
		token: token, context: "delete user",
	}, nil)
}

func (c *HTTPClient) ChangeRole(ctx context.Context, token string, id int64, role string) (models.User, error) {
	var u models.User
	body, err := jsonBody(map[string]string{"role": role})
	if err != nil {
		return u, apierr.Validation(err.Error(), "change role")
	}
	err = c.do(ctx, call{
		method: http.MethodPatch, url: c.endpoint("/api/users/%d/", id),
		token: token, body: body, contentType: "application/json", context: "change role",
	}, &u)
	return u, err
}
