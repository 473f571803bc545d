package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/cryptox"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"golang.org/x/sync/singleflight"
)

// SessionManager owns the token lifecycle.
//
// Contract:
//   - CheckValidity: false without a token, otherwise true iff who-am-I succeeds.
//   - Refresh: re-login from saved credentials; no saved pair means no network call.
//     A failed re-login logs the user out.
//   - EnsureValid: CheckValidity, then Refresh on failure. Concurrent callers share
//     one refresh.
//   - Logout: drop every session key and navigate to the sign-in route.
type SessionManager interface {
	CheckValidity(ctx context.Context) bool
	Refresh(ctx context.Context) bool
	EnsureValid(ctx context.Context) bool
	Logout(ctx context.Context)
	SaveCredentials(ctx context.Context, username, password string)

	Login(ctx context.Context, username, password string, remember bool) (models.Session, error)
	SignOut(ctx context.Context)
	Register(ctx context.Context, req models.RegistrationRequest) (models.User, error)
	Session(ctx context.Context) models.Session
	WhoAmI(ctx context.Context) (models.UserInfo, error)
}

type sessionManager struct {
	client api.Client
	store  CredentialStore
	nav    Navigator
	log    logging.Logger

	refreshes singleflight.Group
}

// NewSessionManager constructs a SessionManager. nav may be nil.
func NewSessionManager(client api.Client, store CredentialStore, nav Navigator, log logging.Logger) SessionManager {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &sessionManager{client: client, store: store, nav: nav, log: log.With("component", "session")}
}

func (m *sessionManager) CheckValidity(ctx context.Context) bool {
	token, ok := m.store.Get(ctx, common.KeyToken)
	if !ok || token == "" {
		return false
	}
	if _, err := m.client.WhoAmI(ctx, token); err != nil {
		m.log.Debug(ctx, "token rejected", "error", err)
		return false
	}
	return true
}

func (m *sessionManager) Refresh(ctx context.Context) bool {
	creds, ok := m.loadCredentials(ctx)
	if !ok {
		m.log.Info(ctx, "no saved credentials to refresh the token")
		return false
	}

	token, err := m.client.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed", "username", creds.Username, "error", err)
		m.Logout(ctx)
		return false
	}

	m.store.Set(ctx, common.KeyToken, token)
	m.log.Info(ctx, "token refreshed", "username", creds.Username)
	return true
}

// EnsureValid runs at most one refresh at a time. The shared refresh does not
// observe any single caller's cancellation; each caller stops waiting when its
// own ctx is done.
func (m *sessionManager) EnsureValid(ctx context.Context) bool {
	if m.CheckValidity(ctx) {
		return true
	}

	m.log.Info(ctx, "token is no longer valid, refreshing")
	ch := m.refreshes.DoChan("refresh", func() (any, error) {
		return m.Refresh(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		return false
	}
}

func (m *sessionManager) Logout(ctx context.Context) {
	m.store.Remove(ctx, sessionKeys...)
	m.log.Info(ctx, "logged out")
	m.nav.Navigate(common.RouteSignIn)
}

// SaveCredentials stores the pair used by Refresh. The password is sealed
// with a key derived from the username and a per-installation salt.
func (m *sessionManager) SaveCredentials(ctx context.Context, username, password string) {
	salt, _ := installSalt(ctx, m.store, true)
	key := cryptox.DeriveKey([]byte(username), salt)
	defer common.WipeByteArray(key)

	sealed, err := cryptox.SealString(key, password)
	if err != nil {
		m.log.Warn(ctx, "credentials not saved", "error", err)
		return
	}
	m.store.SetMany(ctx, map[string]string{
		common.KeyUsername: username,
		common.KeyPassword: sealed,
	})
}

func (m *sessionManager) loadCredentials(ctx context.Context) (models.Credentials, bool) {
	username, uok := m.store.Get(ctx, common.KeyUsername)
	password, pok := m.store.Get(ctx, common.KeyPassword)
	if !uok || !pok || username == "" || password == "" {
		return models.Credentials{}, false
	}

	if strings.HasPrefix(password, cryptox.SealedPrefix) {
		salt, ok := installSalt(ctx, m.store, false)
		if !ok {
			m.log.Warn(ctx, "saved password cannot be opened: install salt missing")
			return models.Credentials{}, false
		}
		key := cryptox.DeriveKey([]byte(username), salt)
		defer common.WipeByteArray(key)

		plain, err := cryptox.OpenString(key, password)
		if err != nil {
			m.log.Warn(ctx, "saved password cannot be opened", "error", err)
			return models.Credentials{}, false
		}
		password = plain
	}
	return models.Credentials{Username: username, Password: password}, true
}

// Login exchanges the credentials for a token, resolves the account with
// who-am-I and persists the session. The saved credentials are replaced
// when remember is set and dropped otherwise.
func (m *sessionManager) Login(ctx context.Context, username, password string, remember bool) (models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.Session{}, apierr.Validation("username and password are required", "login")
	}

	token, err := m.client.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	info, err := m.client.WhoAmI(ctx, token)
	if err != nil {
		return models.Session{}, fmt.Errorf("user info: %w", err)
	}

	s := models.Session{Token: token, Role: info.Role, UserID: info.ID, IsSuperuser: info.IsSuperuser}
	m.store.SetMany(ctx, map[string]string{
		common.KeyToken:     s.Token,
		common.KeyRole:      s.Role,
		common.KeyUserID:    strconv.FormatInt(s.UserID, 10),
		common.KeySuperuser: strconv.FormatBool(s.IsSuperuser),
	})

	if remember {
		m.SaveCredentials(ctx, username, password)
	} else {
		m.store.Remove(ctx, common.KeyUsername, common.KeyPassword)
	}

	m.log.Info(ctx, "logged in", "username", username, "role", s.Role, "id_user", s.UserID)
	m.nav.Navigate(s.LandingRoute())
	return s, nil
}

// SignOut invalidates the token on the server when possible, then logs out
// locally regardless of the outcome.
func (m *sessionManager) SignOut(ctx context.Context) {
	if token, ok := m.store.Get(ctx, common.KeyToken); ok && token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			m.log.Warn(ctx, "remote logout failed", "error", err)
		}
	}
	m.Logout(ctx)
}

func (m *sessionManager) Register(ctx context.Context, req models.RegistrationRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.User{}, apierr.Validation("username, email and password are required", "register")
	}

	u, err := m.client.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	m.log.Info(ctx, "account registered", "username", u.Username, "id_user", u.ID)
	return u, nil
}

// Session materializes the current session from the store.
func (m *sessionManager) Session(ctx context.Context) models.Session {
	var s models.Session
	s.Token, _ = m.store.Get(ctx, common.KeyToken)
	s.Role, _ = m.store.Get(ctx, common.KeyRole)
	s.UserID, _ = storedUserID(ctx, m.store)
	if v, ok := m.store.Get(ctx, common.KeySuperuser); ok {
		s.IsSuperuser, _ = strconv.ParseBool(v)
	}
	return s
}

func (m *sessionManager) WhoAmI(ctx context.Context) (models.UserInfo, error) {
	token, err := requireToken(ctx, m.store, "user info")
	if err != nil {
		return models.UserInfo{}, err
	}
	return m.client.WhoAmI(ctx, token)
}
