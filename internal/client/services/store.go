package services

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/common"
)

// CredentialStore is the persistent key/value store of session artifacts.
// Implementations never fail loudly; a failed read is a missing key.
type CredentialStore interface {
	Set(ctx context.Context, key, value string)
	SetMany(ctx context.Context, values map[string]string)
	Get(ctx context.Context, key string) (string, bool)
	Remove(ctx context.Context, keys ...string)
	// Clear deletes every key, including the installation salt.
	Clear(ctx context.Context)
}

// Navigator receives route changes requested by the services.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// sessionKeys are removed on logout. The install salt survives.
var sessionKeys = []string{
	common.KeyToken,
	common.KeyRole,
	common.KeyUserID,
	common.KeySuperuser,
	common.KeyUsername,
	common.KeyPassword,
}

// requireToken returns the stored token or an auth error without touching
// the network.
func requireToken(ctx context.Context, store CredentialStore, op string) (string, error) {
	token, ok := store.Get(ctx, common.KeyToken)
	if !ok || token == "" {
		return "", apierr.Auth(common.ErrNotLoggedIn, op)
	}
	return token, nil
}

func storedUserID(ctx context.Context, store CredentialStore) (int64, bool) {
	v, ok := store.Get(ctx, common.KeyUserID)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

const installSaltSize = 16

// installSalt returns the per-installation salt used to seal the saved
// password, creating it when create is set.
func installSalt(ctx context.Context, store CredentialStore, create bool) ([]byte, bool) {
	if v, ok := store.Get(ctx, common.KeyInstallSalt); ok {
		if salt, err := base64.StdEncoding.DecodeString(v); err == nil && len(salt) == installSaltSize {
			return salt, true
		}
	}
	if !create {
		return nil, false
	}
	salt := common.GenerateRandByteArray(installSaltSize)
	store.Set(ctx, common.KeyInstallSalt, base64.StdEncoding.EncodeToString(salt))
	return salt, true
}
