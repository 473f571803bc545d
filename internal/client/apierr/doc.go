// Package apierr turns the failure shapes the client meets (Go errors,
// decoded JSON bodies, bare strings, failed HTTP responses) into a single
// ErrorRecord, and tags them with a Kind so callers can branch with errors.Is.
package apierr
