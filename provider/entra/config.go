package entra

import (
	"fmt"
	"strings"
	"time"
)

// Config holds Microsoft Entra ID configuration for the popup/redirect
// sign-in flow.
type Config struct {
	// TenantID is the directory tenant (GUID or domain, e.g.
	// "contoso.onmicrosoft.com"). "common" works for multi-tenant apps.
	TenantID string

	// ClientID is the application (client) id from the app registration. It
	// is also the expected audience of the ID token.
	ClientID string

	// RedirectURI is where the front channel lands after sign in.
	RedirectURI string

	// Scopes requested during authorization. Default: openid profile email.
	Scopes []string

	// Issuer overrides the expected token issuer (optional).
	// Default: "https://login.microsoftonline.com/{TenantID}/v2.0".
	Issuer string

	// JWKSURL overrides the key set endpoint (optional).
	// Default: "https://login.microsoftonline.com/{TenantID}/discovery/v2.0/keys".
	JWKSURL string

	// RefreshInterval is how often cached JWKS keys are refreshed.
	// Default: 1 hour.
	RefreshInterval time.Duration
}

// DefaultScopes returns the default Entra scopes.
func DefaultScopes() []string {
	return []string{"openid", "profile", "email"}
}

func (c Config) issuerURL() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/v2.0", strings.TrimSpace(c.TenantID))
}

func (c Config) jwksURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/discovery/v2.0/keys", strings.TrimSpace(c.TenantID))
}

func (c Config) authorizeURL() string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/authorize", strings.TrimSpace(c.TenantID))
}

func (c Config) validate() error {
	if strings.TrimSpace(c.TenantID) == "" {
		return fmt.Errorf("entra: tenant id is required")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("entra: client id is required")
	}
	return nil
}
