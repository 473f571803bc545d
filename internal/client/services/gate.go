package services

import (
	"context"

	"github.com/dmitrijs2005/mycloud/internal/client/api"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/common"
	"github.com/dmitrijs2005/mycloud/internal/logging"
)

type GateState int

const (
	Pending GateState = iota
	Granted
	Denied
)

func (s GateState) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "pending"
	}
}

// Route is a navigation target.
type Route struct {
	Path         string
	RequireAdmin bool
}

// Decision is the outcome of a gate check. Redirect is set only when State
// is Denied.
type Decision struct {
	State    GateState
	Redirect string
}

func (d Decision) Allowed() bool { return d.State == Granted }

// AccessGate decides whether a route may be shown. Every check queries the
// remote service; nothing is cached between checks.
type AccessGate interface {
	Check(ctx context.Context, r Route) Decision
}

type accessGate struct {
	client api.Client
	store  CredentialStore
	log    logging.Logger
}

func NewAccessGate(client api.Client, store CredentialStore, log logging.Logger) AccessGate {
	return &accessGate{client: client, store: store, log: log.With("component", "gate")}
}

func (g *accessGate) Check(ctx context.Context, r Route) Decision {
	d := Decision{State: Pending}

	token, ok := g.store.Get(ctx, common.KeyToken)
	if !ok || token == "" {
		return d.deny(common.RouteSignIn)
	}

	info, err := g.client.WhoAmI(ctx, token)
	if err != nil {
		g.log.Debug(ctx, "gate check failed", "path", r.Path, "error", err)
		return d.deny(common.RouteSignIn)
	}

	if r.RequireAdmin && info.Role != common.RoleAdmin && !info.IsSuperuser {
		return d.deny(models.StorageRoute(info.ID))
	}
	return d.grant()
}

func (d Decision) deny(redirect string) Decision {
	d.State, d.Redirect = Denied, redirect
	return d
}

func (d Decision) grant() Decision {
	d.State, d.Redirect = Granted, ""
	return d
}
