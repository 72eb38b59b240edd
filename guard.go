package session

// Action is the routing outcome for a protected view.
type Action string

const (
	// ActionRender lets the requested view render
	ActionRender Action = "render"
	// ActionRedirectToLogin sends an unauthenticated visitor to the login
	// view; the caller is responsible for carrying the requested location so
	// the visitor returns there after login
	ActionRedirectToLogin Action = "redirect_login"
	// ActionRedirectToFallback sends an authenticated but unauthorized
	// visitor to their role default view, never to the login screen
	ActionRedirectToFallback Action = "redirect_fallback"
)

// Decision is the result of an access check.
type Decision struct {
	Action Action
}

// Decide maps the current session and a view's role requirement to a routing
// decision. Pure function: identical inputs always yield the identical
// decision, with no side effects, so every protected view can resolve within
// the same frame.
//
// An authorization mismatch is not an error. The visitor is authenticated,
// just not authorized for this view, and is redirected without detail so the
// role topology is not leaked.
func Decide(s Session, required ...Role) Decision {
	if !s.IsAuthenticated() {
		return Decision{Action: ActionRedirectToLogin}
	}

	if len(required) == 0 || roleIn(s.Identity.Role, required) {
		return Decision{Action: ActionRender}
	}

	return Decision{Action: ActionRedirectToFallback}
}
