package common

import "errors"

var (
	// ErrNotLoggedIn is returned when an operation needs a session and there is none.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNoOwner is returned by file commands issued outside a storage view.
	ErrNoOwner = errors.New("no storage selected")

	// ErrAccessDenied is returned when the gate refuses a navigation.
	ErrAccessDenied = errors.New("access denied")
)
