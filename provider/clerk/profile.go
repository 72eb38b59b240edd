package clerk

import (
	"strings"

	"github.com/goliatone/go-session"
)

type userProfile struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
}

// mapIdentity normalizes the widget profile into the common Identity shape.
// A role published in the instance's public metadata wins when it parses;
// otherwise the role stays empty and the orchestrator's role hint applies.
func mapIdentity(profile *userProfile) *session.Identity {
	displayName := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if displayName == "" {
		displayName = profile.Username
	}

	var role session.Role
	if parsed, ok := session.ParseRole(profile.PublicMetadata.Role); ok {
		role = parsed
	}

	return &session.Identity{
		ID:          profile.ID,
		DisplayName: displayName,
		Email:       profile.primaryEmail(),
		Role:        role,
		AvatarRef:   profile.ImageURL,
	}
}

func (p *userProfile) primaryEmail() string {
	for _, email := range p.EmailAddresses {
		if email.ID == p.PrimaryEmailAddressID {
			return email.EmailAddress
		}
	}

	if len(p.EmailAddresses) > 0 {
		return p.EmailAddresses[0].EmailAddress
	}

	return ""
}
