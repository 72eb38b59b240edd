package session

// Routes describes the application's navigation surface: where anonymous
// visitors land, where each role lands by default, and which protected
// destinations count as "already somewhere specific" so the resolver does
// not bounce a visitor off a page they deliberately navigated to.
type Routes struct {
	PublicLanding string
	Login         string
	DefaultViews  map[Role]string
	Protected     []string
}

// DefaultRoutes returns the route table of the learning platform client.
func DefaultRoutes() Routes {
	return Routes{
		PublicLanding: "/",
		Login:         "/login",
		DefaultViews: map[Role]string{
			RoleStudent: "/dashboard",
			RoleParent:  "/welcome",
			RoleAdmin:   "/dashboard",
		},
		Protected: []string{
			"/dashboard",
			"/welcome",
			"/courses",
			"/children",
			"/tasks",
			"/ai-tutor",
			"/analytics",
			"/achievements",
			"/tv",
			"/settings",
			"/profile",
		},
	}
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*Resolver)

// WithRoutes overrides the default route table.
func WithRoutes(routes Routes) ResolverOption {
	return func(r *Resolver) {
		r.routes = routes
	}
}

// Resolver decides the landing location for a visitor hitting an ambiguous
// or unspecified path (the wildcard route).
type Resolver struct {
	routes    Routes
	protected map[string]struct{}
}

// NewResolver creates a resolver over the default route table.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{routes: DefaultRoutes()}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.protected = make(map[string]struct{}, len(r.routes.Protected))
	for _, path := range r.routes.Protected {
		r.protected[path] = struct{}{}
	}

	return r
}

// Resolve returns the path the visitor should land on. Authenticated
// sessions already on a known protected destination stay put (no redirect
// loops between a landing view and itself); anywhere else they go to their
// role default. Anonymous sessions go to the public landing page, never
// straight to login — login is reached explicitly or via the guard.
func (r *Resolver) Resolve(s Session, requestedPath string) string {
	if s.IsAuthenticated() {
		if _, ok := r.protected[requestedPath]; ok {
			return requestedPath
		}
		return r.DefaultView(s.Identity.Role)
	}

	return r.routes.PublicLanding
}

// DefaultView returns the role-appropriate default view. Unknown roles fall
// back to the public landing page.
func (r *Resolver) DefaultView(role Role) string {
	if view, ok := r.routes.DefaultViews[role]; ok && view != "" {
		return view
	}
	return r.routes.PublicLanding
}

// LoginPath returns the configured login view path.
func (r *Resolver) LoginPath() string {
	return r.routes.Login
}

// PublicLanding returns the configured public landing path.
func (r *Resolver) PublicLanding() string {
	return r.routes.PublicLanding
}
