// Package services contains the application services of the mycloud client.
//
// SessionManager owns the token lifecycle: validity check, re-authentication
// from saved credentials, login and logout. AccessGate decides whether a
// navigation may proceed. FileManager performs file operations against the
// remote service and keeps a per-owner cache of the last server state.
// AdminManager exposes the administrative account operations.
//
// Every service reads the token from the injected CredentialStore and returns
// *apierr.Error on failure.
package services
