package session

import "context"

// LoginRequest carries the inputs a provider adapter may need for one
// attempt. Credential is provider specific: an ID token for redirect OAuth
// providers, a widget session token for hosted sign-in, ignored by the demo
// provider. Provider specific response fields (tokens, scopes) stay inside
// the adapter and never reach the session core.
type LoginRequest struct {
	Provider   string
	RoleHint   Role
	Credential string
}

// Provider is the uniform capability wrapping a concrete sign-in mechanism.
// AttemptLogin must normalize its result into an Identity or an error the
// orchestrator can classify (ideally a *LoginError). Implementations must
// honor ctx cancellation: once the orchestrator abandons an attempt the
// adapter has to return promptly and stop doing work on its behalf.
type Provider interface {
	Name() string
	AttemptLogin(ctx context.Context, req LoginRequest) (*Identity, error)
}
