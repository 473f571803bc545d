// Package netx has URL helpers for talking to the storage service.
package netx

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrEmptyURL = errors.New("empty url")

// ParseBaseURL validates the service base URL. A missing scheme means http.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", raw)
	}
	u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
	return u, nil
}

// Endpoint appends path to base. The trailing slash of path is kept; the
// service routes differ with and without it.
func Endpoint(base *url.URL, path string) string {
	return strings.TrimRight(base.String(), "/") + "/" + strings.TrimLeft(path, "/")
}

// Resolve turns ref into an absolute URL. Relative references resolve
// against base.
func Resolve(base *url.URL, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyURL
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", ref, err)
	}
	if r.IsAbs() {
		if r.Scheme != "http" && r.Scheme != "https" {
			return "", fmt.Errorf("invalid link %q: unsupported scheme %q", ref, r.Scheme)
		}
		return r.String(), nil
	}
	return base.ResolveReference(r).String(), nil
}
