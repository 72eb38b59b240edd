// Package entra implements the Microsoft Entra ID (formerly Azure AD)
// popup/redirect sign-in flow as a session.Provider. The front channel runs
// in the host UI: the popup authenticates against the authorize endpoint and
// hands the resulting ID token to AttemptLogin as the request credential.
// The adapter validates the token against the tenant JWKS and normalizes the
// claims into the common Identity shape.
package entra

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-session"
)

// Provider implements session.Provider for Microsoft Entra ID.
type Provider struct {
	config Config
	jwks   *keyfunc.JWKS
}

// New creates an Entra provider. The JWKS endpoint is fetched eagerly so a
// misconfigured tenant fails at wiring time rather than mid-login.
func New(cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes()
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Hour
	}

	jwks, err := keyfunc.Get(cfg.jwksURL(), keyfunc.Options{
		RefreshInterval:   cfg.RefreshInterval,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("entra: failed to load JWKS: %w", err)
	}

	return &Provider{
		config: cfg,
		jwks:   jwks,
	}, nil
}

// Name implements session.Provider.
func (p *Provider) Name() string {
	return "entra"
}

// AuthCodeURL returns the authorize URL the host opens in the popup. State
// should be an unguessable value the host verifies on return.
func (p *Provider) AuthCodeURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURI},
		"response_type": {"id_token"},
		"response_mode": {"fragment"},
		"scope":         {strings.Join(p.config.Scopes, " ")},
		"state":         {state},
		"nonce":         {state},
	}

	return p.config.authorizeURL() + "?" + params.Encode()
}

// AttemptLogin implements session.Provider. The credential is the raw ID
// token produced by the popup flow.
func (p *Provider) AttemptLogin(ctx context.Context, req session.LoginRequest) (*session.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, session.AsLoginError(err)
	}

	raw := strings.TrimSpace(req.Credential)
	if raw == "" {
		return nil, session.NewLoginError(session.LoginErrorCancelled, "sign-in did not complete: no identity token")
	}

	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, p.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(p.config.issuerURL()),
		jwt.WithAudience(p.config.ClientID),
	)
	if err != nil {
		return nil, normalizeTokenError(err)
	}

	identity := mapIdentity(claims)
	if identity == nil || identity.ID == "" {
		return nil, session.NewLoginError(session.LoginErrorDenied, "identity token carries no subject")
	}

	return identity, nil
}

func normalizeTokenError(err error) error {
	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return session.WrapLoginError(session.LoginErrorDenied, "identity token is expired", err)
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid),
		stderrors.Is(err, jwt.ErrTokenInvalidIssuer),
		stderrors.Is(err, jwt.ErrTokenInvalidAudience):
		return session.WrapLoginError(session.LoginErrorDenied, "identity token was rejected", err)
	default:
		return session.WrapLoginError(session.LoginErrorUnknown, "unable to validate identity token", err)
	}
}

var _ session.Provider = (*Provider)(nil)
