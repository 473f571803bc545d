package apierr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindNetwork Kind = iota + 1
	KindHTTP
	KindValidation
	KindAuth
)

var (
	ErrNetwork    = errors.New("network error")
	ErrHTTP       = errors.New("http error")
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authorization error")
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindHTTP:
		return ErrHTTP
	case KindValidation:
		return ErrValidation
	case KindAuth:
		return ErrAuth
	default:
		return nil
	}
}

// KindForStatus maps a non-2xx status code to a Kind.
func KindForStatus(code int) Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindHTTP
	}
}
