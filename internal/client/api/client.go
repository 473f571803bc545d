package api

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/mycloud/internal/client/models"
)

// Client is the remote storage service contract.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	WhoAmI(ctx context.Context, token string) (models.UserInfo, error)
	Register(ctx context.Context, req models.RegistrationRequest) (models.User, error)

	ListFiles(ctx context.Context, token string, owner int64) ([]models.FileResource, error)
	UploadFile(ctx context.Context, token string, owner int64, req models.UploadRequest) ([]models.FileResource, error)
	DeleteFile(ctx context.Context, token string, owner, fileID int64) error
	RenameFile(ctx context.Context, token string, owner, fileID int64, name string) (models.FileResource, error)
	DownloadFile(ctx context.Context, token string, fileID int64) (io.ReadCloser, http.Header, error)
	CreateLink(ctx context.Context, token string, owner, fileID int64) (string, error)
	ViewFile(ctx context.Context, owner, fileID int64) (io.ReadCloser, http.Header, error)
	FetchShared(ctx context.Context, link string) (io.ReadCloser, http.Header, error)

	ListUsers(ctx context.Context, token string) ([]models.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
	ChangeRole(ctx context.Context, token string, id int64, role string) (models.User, error)
}
