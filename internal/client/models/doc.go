// Package models defines the client-side data models of the mycloud CLI:
// the session, stored credentials, remote file records and user accounts.
package models
