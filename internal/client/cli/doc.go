// Package cli provides the interactive mycloud command-line client.
//
// It wires configuration, the local credential store, the remote API client
// and the session, gate, file and admin managers behind a small REPL. Views
// are routes ("/signin", "/admin", "/storage/<id>"); every navigation runs the
// access gate before the view is entered, and file commands revalidate the
// session first.
//
// Key features:
//   - Register / Login / Logout, with optional saved credentials
//   - Per-account storage view: list, upload, rename, delete
//   - Download and view into a local directory or an S3 bucket
//   - Share links copied to the clipboard
//   - Admin view: list users, change roles, delete accounts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
