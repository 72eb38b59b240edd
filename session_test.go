package session_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatusIsValid(t *testing.T) {
	for _, status := range []session.Status{
		session.StatusAnonymous,
		session.StatusAuthenticating,
		session.StatusAuthenticated,
		session.StatusFailed,
	} {
		assert.True(t, status.IsValid())
	}

	assert.False(t, session.Status("logged-in").IsValid())
	assert.False(t, session.Status("").IsValid())
}

func TestSessionRoleWithoutIdentity(t *testing.T) {
	s := session.Session{Status: session.StatusAnonymous}
	assert.Equal(t, session.Role(""), s.Role())
	assert.False(t, s.IsAuthenticated())
}

// TestSessionIdentityInvariant drives the store through randomized
// transition sequences and checks after every observed state that an
// identity is present exactly when the status is authenticated.
func TestSessionIdentityInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	store := session.New(session.NewMemoryPersistence())
	orchestrator := session.NewOrchestrator(store)
	orchestrator.Register(&scriptedProvider{name: "ok", identity: ptr(studentIdentity())})
	orchestrator.Register(&scriptedProvider{
		name: "bad",
		err:  session.NewLoginError(session.LoginErrorNetwork, "unreachable"),
	})

	unsubscribe := store.Subscribe(func(s session.Session) {
		hasIdentity := s.Identity != nil
		assert.Equal(t, s.Status == session.StatusAuthenticated, hasIdentity,
			"identity presence must track authenticated status, got %s", s)
	})
	defer unsubscribe()

	settle := func() {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if store.Current().Status != session.StatusAuthenticating {
				return
			}
			time.Sleep(time.Millisecond)
		}
		t.Fatal("attempt never settled")
	}

	for i := 0; i < 200; i++ {
		switch rng.Intn(4) {
		case 0:
			_ = orchestrator.StartLogin(context.Background(), "ok")
			settle()
		case 1:
			_ = orchestrator.StartLogin(context.Background(), "bad")
			settle()
		case 2:
			store.Logout(context.Background())
		case 3:
			store.AcknowledgeFailure()
		}

		current := store.Current()
		require.True(t, current.Status.IsValid())
		assert.Equal(t, current.Status == session.StatusAuthenticated, current.Identity != nil)

		if current.Status != session.StatusFailed {
			assert.Empty(t, current.LastError)
		}
	}
}
