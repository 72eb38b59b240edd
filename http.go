package session

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteGuard adapts the session core to the routing layer: Decide runs once
// per navigation behind go-router middleware, and the rejected-route cookie
// carries the originally requested location across the login round trip.
type RouteGuard struct {
	store    *Store
	resolver *Resolver
	cfg      Config
	Logger   Logger
}

// NewRouteGuard creates a route guard over the given store and resolver.
func NewRouteGuard(store *Store, resolver *Resolver, cfg Config) *RouteGuard {
	return &RouteGuard{
		store:    store,
		resolver: resolver,
		cfg:      cfg,
		Logger:   defLogger{},
	}
}

// Protected returns middleware guarding a view. With no roles, any
// authenticated visitor may render; otherwise the identity's role must be in
// the set. Unauthorized-but-authenticated visitors are redirected to their
// role default without error messaging.
func (g *RouteGuard) Protected(roles ...Role) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			current := g.store.Current()
			decision := Decide(current, roles...)

			switch decision.Action {
			case ActionRender:
				return next(c)

			case ActionRedirectToFallback:
				target := g.resolver.DefaultView(current.Role())
				g.Logger.Info(
					"role mismatch, redirecting to fallback %s",
					print.MaybePrettyJSON(map[string]any{
						"path":   c.OriginalURL(),
						"role":   current.Role(),
						"target": target,
					}),
				)
				return c.Redirect(target, redirectStatus(c))

			default:
				g.SetRedirect(c)
				return c.Redirect(g.loginPath(), redirectStatus(c))
			}
		}
	}
}

// AuthRedirect handles the wildcard route: it sends the visitor to whatever
// the resolver considers their landing location.
func (g *RouteGuard) AuthRedirect(c router.Context) error {
	current := g.store.Current()
	target := g.resolver.Resolve(current, c.OriginalURL())

	if target == c.OriginalURL() {
		return c.Next()
	}

	return c.Redirect(target, redirectStatus(c))
}

// Logout tears the session down and lands the visitor on the public page.
func (g *RouteGuard) Logout(c router.Context) error {
	g.store.Logout(context.Background())
	return c.Redirect(g.resolver.PublicLanding(), redirectStatus(c))
}

// SetRedirect remembers the originally requested location so the visitor can
// be returned there once they authenticate.
func (g *RouteGuard) SetRedirect(c router.Context) {
	rejectedRoute := g.cfg.GetRejectedRouteKey()

	g.Logger.Info("setting redirect cookie key=%s path=%s", rejectedRoute, c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect pops the remembered location, falling back to the given
// default.
func (g *RouteGuard) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return g.resolver.PublicLanding()
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

// GetRedirectOrDefault pops the remembered location, trying the referer
// header before the configured default landing.
func (g *RouteGuard) GetRedirectOrDefault(c router.Context) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	refererHeader := string(c.Referer())

	r := c.Cookies(rejectedRoute, refererHeader)
	if r == "" {
		r = g.resolver.DefaultView(g.store.Current().Role())
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

func (g *RouteGuard) loginPath() string {
	if g.cfg != nil && g.cfg.GetLoginPath() != "" {
		return g.cfg.GetLoginPath()
	}
	return g.resolver.LoginPath()
}

func (g *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
