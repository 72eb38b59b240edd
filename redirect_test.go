package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
)

func TestResolverAnonymousGoesToPublicLanding(t *testing.T) {
	resolver := session.NewResolver()

	for _, s := range []session.Session{
		{Status: session.StatusAnonymous},
		{Status: session.StatusAuthenticating},
		{Status: session.StatusFailed, LastError: "nope"},
	} {
		assert.Equal(t, "/", resolver.Resolve(s, "/anything"), "status %s", s.Status)
	}
}

func TestResolverAnonymousNeverSentToLogin(t *testing.T) {
	resolver := session.NewResolver()

	target := resolver.Resolve(session.Session{Status: session.StatusAnonymous}, "/login")
	assert.NotEqual(t, "/login", target)
}

func TestResolverAuthenticatedLandsOnRoleDefault(t *testing.T) {
	resolver := session.NewResolver()

	tests := []struct {
		role     session.Role
		expected string
	}{
		{session.RoleStudent, "/dashboard"},
		{session.RoleParent, "/welcome"},
		{session.RoleAdmin, "/dashboard"},
	}

	for _, tc := range tests {
		target := resolver.Resolve(authenticated(tc.role), "/nowhere-specific")
		assert.Equal(t, tc.expected, target, "role %s", tc.role)
	}
}

func TestResolverKeepsKnownProtectedDestination(t *testing.T) {
	resolver := session.NewResolver()

	// already somewhere deliberate: no redirect loop back to the default
	for _, path := range []string{"/welcome", "/dashboard", "/courses", "/children"} {
		assert.Equal(t, path, resolver.Resolve(authenticated(session.RoleParent), path))
	}
}

func TestResolverCustomRoutes(t *testing.T) {
	resolver := session.NewResolver(session.WithRoutes(session.Routes{
		PublicLanding: "/home",
		Login:         "/signin",
		DefaultViews: map[session.Role]string{
			session.RoleAdmin: "/console",
		},
		Protected: []string{"/console"},
	}))

	assert.Equal(t, "/console", resolver.Resolve(authenticated(session.RoleAdmin), "/x"))
	assert.Equal(t, "/home", resolver.Resolve(session.Session{Status: session.StatusAnonymous}, "/x"))
	// roles without a configured default fall back to the public landing
	assert.Equal(t, "/home", resolver.DefaultView(session.RoleStudent))
	assert.Equal(t, "/signin", resolver.LoginPath())
}
