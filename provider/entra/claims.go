package entra

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-session"
)

// idTokenClaims are the Entra ID token claims the adapter cares about.
// Everything else in the token stays adapter-internal and is discarded.
type idTokenClaims struct {
	jwt.RegisteredClaims
	ObjectID          string   `json:"oid,omitempty"`
	Name              string   `json:"name,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Email             string   `json:"email,omitempty"`
	Roles             []string `json:"roles,omitempty"`
}

// mapIdentity normalizes validated claims into the common Identity shape.
// The stable key is the directory object id, falling back to the token
// subject. The first app role that parses into a known Role wins; tokens
// without a usable role leave it empty so the orchestrator's role hint can
// apply.
func mapIdentity(claims *idTokenClaims) *session.Identity {
	if claims == nil {
		return nil
	}

	id := claims.ObjectID
	if id == "" {
		id = claims.Subject
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}

	var role session.Role
	for _, raw := range claims.Roles {
		if parsed, ok := session.ParseRole(raw); ok {
			role = parsed
			break
		}
	}

	return &session.Identity{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		Role:        role,
	}
}
