package session

import "fmt"

// Status is the session's position in the auth lifecycle.
type Status string

const (
	// StatusAnonymous is a visitor with no identity
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticating is a login attempt in flight
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated is a visitor with a verified identity
	StatusAuthenticated Status = "authenticated"
	// StatusFailed is a login attempt that ended in an error
	StatusFailed Status = "failed"
)

// IsValid checks if the status is part of the lifecycle.
func (s Status) IsValid() bool {
	switch s {
	case StatusAnonymous, StatusAuthenticating, StatusAuthenticated, StatusFailed:
		return true
	default:
		return false
	}
}

// Session is the process-wide authentication state. Identity is present if
// and only if Status is StatusAuthenticated. LastError holds a displayable
// message while Status is StatusFailed and is cleared when a new attempt
// starts.
type Session struct {
	Status    Status    `json:"status"`
	Identity  *Identity `json:"identity,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// IsAuthenticated reports whether the session holds a verified identity.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// Role returns the identity's role, or the empty role for sessions without
// an identity.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

func (s Session) String() string {
	id := "<nil>"
	if s.Identity != nil {
		id = s.Identity.ID
	}
	return fmt.Sprintf("status=%s identity=%s err=%q", s.Status, id, s.LastError)
}

// sessionTransitions is the lifecycle graph. Statuses missing from the map
// have no outgoing edges.
var sessionTransitions = map[Status]map[Status]struct{}{
	StatusAnonymous: {
		StatusAuthenticating: {},
	},
	StatusAuthenticating: {
		StatusAuthenticated: {},
		StatusFailed:        {},
	},
	StatusAuthenticated: {
		StatusAnonymous: {},
	},
	StatusFailed: {
		StatusAuthenticating: {},
		StatusAnonymous:      {},
	},
}

func canTransition(from, to Status) bool {
	if allowed, ok := sessionTransitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
