// Package clerk implements the hosted sign-in widget flow as a
// session.Provider. The widget runs entirely in the host UI; once it
// completes it holds a session token, which AttemptLogin verifies against
// the Clerk frontend API and normalizes into the common Identity shape.
package clerk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-session"
)

const defaultUserPath = "/v1/me"

// Config holds the hosted widget configuration.
type Config struct {
	// FrontendAPI is the instance's frontend API origin, e.g.
	// "https://clerk.example.com".
	FrontendAPI string

	// UserInfoURL overrides the profile endpoint (optional).
	// Default: "{FrontendAPI}/v1/me".
	UserInfoURL string

	// HTTPClient overrides the HTTP client (optional).
	HTTPClient *http.Client
}

// Provider implements session.Provider for the hosted widget.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a hosted widget provider.
func New(cfg Config) *Provider {
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = strings.TrimSuffix(cfg.FrontendAPI, "/") + defaultUserPath
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements session.Provider.
func (p *Provider) Name() string {
	return "clerk"
}

// AttemptLogin implements session.Provider. The credential is the widget's
// session token.
func (p *Provider) AttemptLogin(ctx context.Context, req session.LoginRequest) (*session.Identity, error) {
	token := strings.TrimSpace(req.Credential)
	if token == "" {
		return nil, session.NewLoginError(session.LoginErrorCancelled, "sign-in did not complete: no session token")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, session.WrapLoginError(session.LoginErrorUnknown, "unable to build profile request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, session.AsLoginError(ctx.Err())
		}
		return nil, session.WrapLoginError(session.LoginErrorNetwork, "unable to reach sign-in service", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, session.NewLoginError(session.LoginErrorDenied, "sign-in service rejected the session token")
	case resp.StatusCode != http.StatusOK:
		return nil, session.NewLoginError(session.LoginErrorNetwork,
			fmt.Sprintf("sign-in service returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, session.WrapLoginError(session.LoginErrorNetwork, "unable to read profile response", err)
	}

	var profile userProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, session.WrapLoginError(session.LoginErrorUnknown, "unable to decode profile response", err)
	}

	identity := mapIdentity(&profile)
	if identity.ID == "" {
		return nil, session.NewLoginError(session.LoginErrorDenied, "profile response carries no user id")
	}

	return identity, nil
}

var _ session.Provider = (*Provider)(nil)
