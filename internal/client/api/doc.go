// Package api talks to the remote storage service over its HTTP/JSON
// contract.
//
// # Overview
//
// Client is the transport-agnostic contract the services depend on: the
// token exchange, the who-am-I call, file CRUD, download, share links and
// the administrative user endpoints. HTTPClient implements it over net/http.
//
// # Requests
//
// Authenticated calls send "Authorization: Token <value>". Every request
// carries a fresh X-Request-ID so client log lines can be matched with the
// service's access log.
//
// # Error Handling
//
// Every failure is an *apierr.Error. Transport failures are apierr.KindNetwork,
// non-2xx responses are classified from their body and status, and callers
// match them with errors.Is against apierr.ErrAuth, apierr.ErrValidation,
// apierr.ErrHTTP and apierr.ErrNetwork.
package api
