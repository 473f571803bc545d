package services

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/logging"
)

// AdminManager exposes the administrative account operations.
type AdminManager interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ChangeRole(ctx context.Context, id int64, role string) (models.User, error)
}

type adminManager struct {
	client api.Client
	store  CredentialStore
	log    logging.Logger
}

func NewAdminManager(client api.Client, store CredentialStore, log logging.Logger) AdminManager {
	return &adminManager{client: client, store: store, log: log.With("component", "admin")}
}

// ListUsers returns all accounts, administrators first, then by username.
func (m *adminManager) ListUsers(ctx context.Context) ([]models.User, error) {
	token, err := requireToken(ctx, m.store, "list users")
	if err != nil {
		return nil, err
	}
	users, err := m.client.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(users, func(a, b models.User) int {
		if a.IsAdmin() != b.IsAdmin() {
			if a.IsAdmin() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (m *adminManager) DeleteUser(ctx context.Context, id int64) error {
	token, err := requireToken(ctx, m.store, "delete user")
	if err != nil {
		return err
	}
	if err := m.client.DeleteUser(ctx, token, id); err != nil {
		return err
	}
	m.log.Info(ctx, "user deleted", "id_user", id)
	return nil
}

// ChangeRole updates an account's role. When the account is the current
// user, the stored role follows.
func (m *adminManager) ChangeRole(ctx context.Context, id int64, role string) (models.User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return models.User{}, apierr.Validation("role is required", "change role")
	}

	token, err := requireToken(ctx, m.store, "change role")
	if err != nil {
		return models.User{}, err
	}
	u, err := m.client.ChangeRole(ctx, token, id, role)
	if err != nil {
		return models.User{}, err
	}

	if self, ok := storedUserID(ctx, m.store); ok && self == id {
		m.store.Set(ctx, common.KeyRole, u.Role)
	}
	m.log.Info(ctx, "role changed", "id_user", id, "role", u.Role)
	return u, nil
}
