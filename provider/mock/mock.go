// Package mock provides a local identity provider that fabricates an
// Identity for demonstration flows: no network, a configurable simulated
// delay, and stable IDs derived from the profile email so a demo visitor
// keeps the same identity across logins.
package mock

import (
	"context"
	"time"

	"github.com/goliatone/go-session"
	"github.com/goliatone/hashid/pkg/hashid"
)

// DefaultDelay simulates the latency of a real provider round trip.
const DefaultDelay = 750 * time.Millisecond

// Profile is the fabricated account the provider returns. Role is left empty
// by default so the orchestrator's role hint (the pre-login role selection)
// applies.
type Profile struct {
	DisplayName string
	Email       string
	AvatarRef   string
	Role        session.Role
}

// Option customizes the provider.
type Option func(*Provider)

// WithName overrides the provider id (default "demo").
func WithName(name string) Option {
	return func(p *Provider) {
		if name != "" {
			p.name = name
		}
	}
}

// WithDelay overrides the simulated latency.
func WithDelay(delay time.Duration) Option {
	return func(p *Provider) {
		if delay >= 0 {
			p.delay = delay
		}
	}
}

// WithProfile overrides the fabricated account.
func WithProfile(profile Profile) Option {
	return func(p *Provider) {
		p.profile = profile
	}
}

// WithError makes every attempt fail with the given error. Used for the
// demo-fail flow and for exercising failure handling in hosts.
func WithError(err error) Option {
	return func(p *Provider) {
		p.err = err
	}
}

// Provider implements session.Provider with a fabricated identity.
type Provider struct {
	name    string
	delay   time.Duration
	profile Profile
	err     error
}

// New creates a demo provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		name:  "demo",
		delay: DefaultDelay,
		profile: Profile{
			DisplayName: "Demo Visitor",
			Email:       "demo@example.com",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// NewFailing creates a provider whose attempts always fail with the given
// login error kind and message.
func NewFailing(name string, kind session.LoginErrorKind, message string) *Provider {
	return New(
		WithName(name),
		WithError(session.NewLoginError(kind, message)),
	)
}

// Name implements session.Provider.
func (p *Provider) Name() string {
	return p.name
}

// AttemptLogin implements session.Provider. The simulated delay is
// interruptible: cancelling the context reports a cancelled login error.
func (p *Provider) AttemptLogin(ctx context.Context, req session.LoginRequest) (*session.Identity, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, session.AsLoginError(ctx.Err())
		case <-timer.C:
		}
	}

	if p.err != nil {
		return nil, p.err
	}

	identity := session.Identity{
		DisplayName: p.profile.DisplayName,
		Email:       p.profile.Email,
		AvatarRef:   p.profile.AvatarRef,
		Role:        p.profile.Role,
	}

	if id, err := hashid.NewUUID(p.profile.Email); err == nil {
		identity.ID = id.String()
	} else {
		identity.ID = p.profile.Email
	}

	return &identity, nil
}

var _ session.Provider = (*Provider)(nil)
