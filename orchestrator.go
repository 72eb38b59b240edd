package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLoginTimeout bounds a login attempt when no explicit timeout is
// configured. An adapter that never resolves must not leave the session in
// authenticating forever.
const DefaultLoginTimeout = 30 * time.Second

// OrchestratorOption customizes orchestrator construction.
type OrchestratorOption func(*Orchestrator)

// WithLoginTimeout overrides the per-attempt deadline.
func WithLoginTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithOrchestratorLogger overrides the logger.
func WithOrchestratorLogger(logger Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOrchestratorActivitySink sets the sink used for login attempt events.
func WithOrchestratorActivitySink(sink ActivitySink) OrchestratorOption {
	return func(o *Orchestrator) {
		o.activitySink = normalizeActivitySink(sink)
	}
}

// LoginOption customizes one login attempt.
type LoginOption func(*LoginRequest)

// WithRoleHint sets the role to apply when the provider does not supply one,
// e.g. the pre-login role selection in demo flows. A role reported by the
// provider always wins over the hint.
func WithRoleHint(role Role) LoginOption {
	return func(req *LoginRequest) {
		req.RoleHint = role
	}
}

// WithCredential passes provider specific front-channel material (ID token,
// widget session token) into the adapter.
func WithCredential(credential string) LoginOption {
	return func(req *LoginRequest) {
		req.Credential = credential
	}
}

// Orchestrator drives login attempts end to end. It is the only component
// besides Logout that mutates the Store, and the last line of defense against
// adapter errors or panics corrupting the session.
type Orchestrator struct {
	store        *Store
	providers    map[string]Provider
	timeout      time.Duration
	logger       Logger
	activitySink ActivitySink
}

// NewOrchestrator creates an orchestrator bound to the given store.
func NewOrchestrator(store *Store, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		providers:    map[string]Provider{},
		timeout:      DefaultLoginTimeout,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

// Register adds a provider adapter under its own name.
func (o *Orchestrator) Register(provider Provider) *Orchestrator {
	if provider != nil {
		o.providers[provider.Name()] = provider
	}
	return o
}

// StartLogin begins a login attempt against the named provider. The call is
// fire and forget: it returns once the attempt is accepted, and completion is
// observed through the Store. The returned error covers only synchronous
// rejection: ErrProviderNotFound, ErrLoginInProgress when another attempt is
// in flight, or ErrAlreadyAuthenticated.
func (o *Orchestrator) StartLogin(ctx context.Context, providerID string, opts ...LoginOption) error {
	provider, ok := o.providers[providerID]
	if !ok {
		return ErrProviderNotFound.WithMetadata(map[string]any{
			"provider": providerID,
		})
	}

	req := LoginRequest{Provider: providerID}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}

	if err := o.store.beginAttempt(); err != nil {
		o.logger.Info("login attempt rejected: %v", err)
		return err
	}

	o.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLoginStarted,
		Provider:  providerID,
		ToStatus:  StatusAuthenticating,
	})

	go o.runAttempt(provider, req)

	return nil
}

// runAttempt executes the provider call on its own goroutine. The attempt
// context is detached from the caller: closing the view that triggered the
// login must not abort the attempt, only the deadline or the provider can.
func (o *Orchestrator) runAttempt(provider Provider, req LoginRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	type result struct {
		identity *Identity
		err      error
	}

	done := make(chan result, 1)
	go func() {
		identity, err := o.attemptLogin(ctx, provider, req)
		done <- result{identity: identity, err: err}
	}()

	// The deadline holds even for adapters that ignore their context; a late
	// result is discarded by the transition table.
	var identity *Identity
	var err error
	select {
	case res := <-done:
		identity, err = res.identity, res.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		lerr := AsLoginError(err)
		o.logger.Error("login attempt failed provider=%s kind=%s: %s", req.Provider, lerr.Kind, lerr.Message)

		if err := o.store.failAttempt(lerr.Message); err != nil {
			o.logger.Error("unable to record login failure: %v", err)
			return
		}

		o.recordActivity(ctx, ActivityEvent{
			EventType:  ActivityEventLoginFailure,
			Provider:   req.Provider,
			FromStatus: StatusAuthenticating,
			ToStatus:   StatusFailed,
			Metadata: map[string]any{
				"kind":  string(lerr.Kind),
				"error": lerr.Message,
			},
		})
		return
	}

	if err := o.store.completeAttempt(*identity); err != nil {
		o.logger.Error("unable to install identity: %v", err)
		return
	}

	o.recordActivity(ctx, ActivityEvent{
		EventType:  ActivityEventLoginSuccess,
		Provider:   req.Provider,
		UserID:     identity.ID,
		FromStatus: StatusAuthenticating,
		ToStatus:   StatusAuthenticated,
	})
}

// attemptLogin invokes the adapter and normalizes its result. Panics are
// converted to LoginError so an unhandled adapter bug cannot take down the
// host or wedge the session.
func (o *Orchestrator) attemptLogin(ctx context.Context, provider Provider, req LoginRequest) (identity *Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			identity = nil
			err = NewLoginError(LoginErrorUnknown, fmt.Sprintf("identity provider panicked: %v", r))
		}
	}()

	identity, err = provider.AttemptLogin(ctx, req)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		return nil, NewLoginError(LoginErrorUnknown, "identity provider returned no identity")
	}

	normalized := *identity
	if normalized.Role == "" {
		normalized.Role = req.RoleHint
	}

	if err := normalized.Validate(); err != nil {
		return nil, WrapLoginError(LoginErrorUnknown, "identity provider returned an invalid identity", err)
	}

	return &normalized, nil
}

func (o *Orchestrator) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	sink := normalizeActivitySink(o.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		o.logger.Warn("orchestrator activity sink error: %v", err)
	}
}
