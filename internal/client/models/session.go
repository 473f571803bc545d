package models

import (
	"fmt"

	"github.com/dmitrijs2005/mycloud/internal/common"
)

// Session is the authenticated state materialized from the credential store.
// An empty Token means unauthenticated.
type Session struct {
	Token       string
	Role        string
	UserID      int64
	IsSuperuser bool
}

func (s Session) Authenticated() bool { return s.Token != "" }

// IsAdmin reports whether the session may open administrative views.
func (s Session) IsAdmin() bool {
	return s.Role == common.RoleAdmin || s.IsSuperuser
}

// LandingRoute is where a freshly logged-in user is sent.
func (s Session) LandingRoute() string {
	if s.IsAdmin() {
		return common.RouteAdmin
	}
	return StorageRoute(s.UserID)
}

// StorageRoute is the file view of the given account.
func StorageRoute(owner int64) string {
	return fmt.Sprintf(common.RouteStorage, owner)
}

// Credentials is the opt-in username/password pair used to re-authenticate.
type Credentials struct {
	Username string
	Password string
}

// UserInfo is the payload of the who-am-I endpoint.
type UserInfo struct {
	ID          int64  `json:"id_user"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Fullname    string `json:"fullname"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
	IsActive    bool   `json:"is_active"`
}

// RegistrationRequest creates a new account.
type RegistrationRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

// User is an account as seen from the administrative listing.
type User struct {
	ID       int64          `json:"id_user"`
	Username string         `json:"username"`
	Fullname string         `json:"fullname"`
	Email    string         `json:"email"`
	Role     string         `json:"role"`
	Storages []FileResource `json:"storages"`
}

func (u User) IsAdmin() bool { return u.Role == common.RoleAdmin }

// StorageSize is the total size of the user's files.
func (u User) StorageSize() int64 {
	var total int64
	for _, f := range u.Storages {
		total += f.Size
	}
	return total
}
