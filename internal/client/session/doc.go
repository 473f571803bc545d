// Package session persists the authenticated-session artifacts (token, role,
// user id and the opt-in saved credentials) across process restarts.
//
// Values pass through a reversible obfuscation codec before they reach the
// SQLite-backed metadata table. The codec only keeps values from being read
// at a glance; it is not encryption.
//
// Store never reports errors to its callers. A failed write is logged and
// dropped, a failed read looks like a missing key.
package session
