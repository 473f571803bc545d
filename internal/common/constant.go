// Package common contains constants and sentinel errors shared by the
// mycloud client packages.
package common

// AuthorizationHeader carries "Token <value>" on every authenticated call.
const AuthorizationHeader = "Authorization"

// AuthScheme is the literal prefix the remote service expects before the token.
const AuthScheme = "Token"

// RequestIDHeader correlates a client log line with the request it describes.
const RequestIDHeader = "X-Request-ID"

// Keys under which the session artifacts are persisted.
const (
	KeyToken       = "token"
	KeyRole        = "role"
	KeyUserID      = "id_user"
	KeySuperuser   = "is_superuser"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyInstallSalt = "install_salt"
)

// RoleAdmin is the role name granting elevated access.
const RoleAdmin = "admin"

// Navigation targets used by the gate and the session manager.
const (
	RouteSignIn  = "/signin"
	RouteAdmin   = "/admin"
	RouteStorage = "/storage/%d"
)
