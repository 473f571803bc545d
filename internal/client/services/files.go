package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/logging"
)

const (
	headerFilename         = "X-Filename"
	headerLastDownloadDate = "X-Last-Download-Date"
)

// FileManager runs file operations for one owner at a time and keeps the
// owner's cached list in step with the server.
type FileManager interface {
	List(ctx context.Context, owner int64) ([]models.FileResource, error)
	Upload(ctx context.Context, owner int64, req models.UploadRequest) ([]models.FileResource, error)
	Delete(ctx context.Context, owner, fileID int64) error
	Rename(ctx context.Context, owner, fileID int64, name string) (models.FileResource, error)
	CreateDownloadLink(ctx context.Context, owner, fileID int64) (models.ShareLink, error)
	Download(ctx context.Context, owner, fileID int64) (*models.Download, error)
	View(ctx context.Context, owner, fileID int64) (*models.Download, error)
	FetchShared(ctx context.Context, link string) (*models.Download, error)
	Cached(owner int64) []models.FileResource
}

type fileManager struct {
	client api.Client
	store  CredentialStore
	cache  *FileCache
	log    logging.Logger
}

func NewFileManager(client api.Client, store CredentialStore, cache *FileCache, log logging.Logger) FileManager {
	if cache == nil {
		cache = NewFileCache()
	}
	return &fileManager{client: client, store: store, cache: cache, log: log.With("component", "files")}
}

func (m *fileManager) List(ctx context.Context, owner int64) ([]models.FileResource, error) {
	token, err := requireToken(ctx, m.store, "list files")
	if err != nil {
		return nil, err
	}
	files, err := m.client.ListFiles(ctx, token, owner)
	if err != nil {
		return nil, err
	}
	m.cache.Replace(owner, files)
	return files, nil
}

// Upload sends the file and replaces the cache with the list the server
// returns.
func (m *fileManager) Upload(ctx context.Context, owner int64, req models.UploadRequest) ([]models.FileResource, error) {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, apierr.Validation("file name is required", "upload")
	case req.Content == nil:
		return nil, apierr.Validation("file content is required", "upload")
	case strings.TrimSpace(req.Comment) == "":
		return nil, apierr.Validation("comment is required", "upload")
	}

	token, err := requireToken(ctx, m.store, "upload")
	if err != nil {
		return nil, err
	}
	files, err := m.client.UploadFile(ctx, token, owner, req)
	if err != nil {
		return nil, err
	}
	m.cache.Replace(owner, files)
	m.log.Info(ctx, "file uploaded", "owner", owner, "name", req.Name, "files", len(files))
	return files, nil
}

func (m *fileManager) Delete(ctx context.Context, owner, fileID int64) error {
	token, err := requireToken(ctx, m.store, "delete file")
	if err != nil {
		return err
	}
	if err := m.client.DeleteFile(ctx, token, owner, fileID); err != nil {
		return err
	}
	m.cache.Remove(owner, fileID)
	m.log.Info(ctx, "file deleted", "owner", owner, "id_file", fileID)
	return nil
}

// Rename returns the updated record and splices it into the cache by id.
// Server validation detail is kept in the returned error.
func (m *fileManager) Rename(ctx context.Context, owner, fileID int64, name string) (models.FileResource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FileResource{}, apierr.Validation("new name is required", "rename")
	}

	token, err := requireToken(ctx, m.store, "rename")
	if err != nil {
		return models.FileResource{}, err
	}
	f, err := m.client.RenameFile(ctx, token, owner, fileID, name)
	if err != nil {
		return models.FileResource{}, err
	}
	if !m.cache.Splice(owner, f) {
		m.log.Debug(ctx, "renamed file is not cached", "owner", owner, "id_file", fileID)
	}
	return f, nil
}

func (m *fileManager) CreateDownloadLink(ctx context.Context, owner, fileID int64) (models.ShareLink, error) {
	token, err := requireToken(ctx, m.store, "share link")
	if err != nil {
		return models.ShareLink{}, err
	}
	link, err := m.client.CreateLink(ctx, token, owner, fileID)
	if err != nil {
		return models.ShareLink{}, err
	}
	return models.ShareLink{FileID: fileID, URL: link}, nil
}

// Download opens the file body. The X-Last-Download-Date header patches only
// the download date of the cached record; other fields stay as last synced.
func (m *fileManager) Download(ctx context.Context, owner, fileID int64) (*models.Download, error) {
	token, err := requireToken(ctx, m.store, "download")
	if err != nil {
		return nil, err
	}
	body, hdr, err := m.client.DownloadFile(ctx, token, fileID)
	if err != nil {
		return nil, err
	}

	at := parseTimestamp(hdr.Get(headerLastDownloadDate))
	return &models.Download{
		Body:             body,
		Filename:         headerFilenameOr(hdr, fmt.Sprintf("file_%d", fileID)),
		LastDownloadDate: m.cache.PatchDownloadDate(owner, fileID, at),
	}, nil
}

// View opens the inline rendition of a file.
func (m *fileManager) View(ctx context.Context, owner, fileID int64) (*models.Download, error) {
	body, hdr, err := m.client.ViewFile(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}
	name := dispositionFilename(hdr)
	if name == "" {
		name = fmt.Sprintf("file_%d", fileID)
	}
	return &models.Download{Body: body, Filename: name}, nil
}

// FetchShared downloads a share link. No token is sent.
func (m *fileManager) FetchShared(ctx context.Context, link string) (*models.Download, error) {
	body, hdr, err := m.client.FetchShared(ctx, link)
	if err != nil {
		return nil, err
	}
	fallback := "shared_file"
	if u, err := url.Parse(link); err == nil {
		if seg := path.Base(strings.TrimRight(u.Path, "/")); seg != "." && seg != "/" && seg != "" {
			fallback = "shared_" + seg
		}
	}
	name := dispositionFilename(hdr)
	if name == "" {
		name = headerFilenameOr(hdr, fallback)
	}
	return &models.Download{Body: body, Filename: name}, nil
}

func (m *fileManager) Cached(owner int64) []models.FileResource {
	return m.cache.Snapshot(owner)
}

// headerFilenameOr decodes the percent-encoded X-Filename header.
func headerFilenameOr(h http.Header, fallback string) string {
	raw := h.Get(headerFilename)
	if raw == "" {
		return fallback
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

func dispositionFilename(h http.Header) string {
	cd := h.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	name, err := url.PathUnescape(params["filename"])
	if err != nil {
		return params["filename"]
	}
	return name
}

// parseTimestamp wraps models.ParseTimestamp. Empty or unparseable input
// yields nil.
func parseTimestamp(v string) *time.Time {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	t, err := models.ParseTimestamp(v)
	if err != nil {
		return nil
	}
	return &t
}
