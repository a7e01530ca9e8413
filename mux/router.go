package mux

import (
	"net/http"
	"slices"
	"strings"
)

// supportedMethods lists the methods a Router accepts, in the order used
// by Walk.
var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// SupportedMethods returns the methods a Router accepts.
func SupportedMethods() []string {
	return slices.Clone(supportedMethods)
}

// IsSupportedMethod reports whether method can be routed.
func IsSupportedMethod(method string) bool {
	return matchInArray(supportedMethods, method)
}

// Router is a route table, optionally scoped under a fixed prefix.
//
// Routers are populated during setup and must not be modified once the
// Server that owns them is serving traffic.
//
//	r := mux.NewRouter()
//	r.Get("/users/:id", showUser)
//	r.Post("/users", authenticate, createUser)
type Router struct {
	prefix string
	routes map[string][]*Route
}

// NewRouter returns a Router without a prefix.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string][]*Route, len(supportedMethods)),
	}
}

// NewPrefixRouter returns a Router whose routes only match paths below
// prefix. fn is called with the new router to register routes relative to
// the prefix.
//
//	admin := mux.NewPrefixRouter("/admin", func(r *mux.Router) {
//	    r.Get("/stats", stats) // serves <mount>/admin/stats
//	})
func NewPrefixRouter(prefix string, fn func(*Router)) *Router {
	r := NewRouter()
	if p := normalizePath(prefix); p != "/" {
		r.prefix = p
	}
	if fn != nil {
		fn(r)
	}
	return r
}

// Prefix returns the router prefix, or "" when there is none.
func (r *Router) Prefix() string {
	return r.prefix
}

// AddRoute registers handlers for method and path. Registering the same
// method and path again replaces the handler list of the existing route.
// An empty path or an unsupported method is ignored.
func (r *Router) AddRoute(method, path string, handlers ...MiddlewareFunc) *Router {
	if path == "" || !IsSupportedMethod(method) {
		return r
	}
	for _, h := range handlers {
		if h == nil {
			panic("mux: nil handler passed to AddRoute")
		}
	}

	pattern := ParsePattern(path)

	for _, route := range r.routes[method] {
		if route.pattern.template == pattern.template {
			route.pattern = pattern
			route.handlers = handlers
			return r
		}
	}

	r.routes[method] = append(r.routes[method], &Route{
		method:   method,
		pattern:  pattern,
		handlers: handlers,
	})
	return r
}

// Get registers a GET route.
func (r *Router) Get(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodGet, path, handlers...)
}

// Post registers a POST route.
func (r *Router) Post(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodPost, path, handlers...)
}

// Put registers a PUT route.
func (r *Router) Put(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodPut, path, handlers...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodPatch, path, handlers...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodDelete, path, handlers...)
}

// Head registers a HEAD route.
func (r *Router) Head(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodHead, path, handlers...)
}

// Options registers an OPTIONS route.
func (r *Router) Options(path string, handlers ...MiddlewareFunc) *Router {
	return r.AddRoute(http.MethodOptions, path, handlers...)
}

// FindRoute returns the first route registered for method whose pattern
// matches path, or nil. The router prefix is stripped from path before
// matching; a path outside the prefix never matches.
func (r *Router) FindRoute(path, method string) *Route {
	if !IsSupportedMethod(method) {
		return nil
	}

	path, ok := r.stripPrefix(path)
	if !ok {
		return nil
	}

	for _, route := range r.routes[method] {
		if route.pattern.Match(path) {
			return route
		}
	}
	return nil
}

// Params extracts the parameters of route from path, stripping the router
// prefix first.
func (r *Router) Params(path string, route *Route) map[string]string {
	path, ok := r.stripPrefix(path)
	if !ok || route == nil {
		return nil
	}
	return route.pattern.Params(path)
}

// Routes returns the routes registered for method in registration order.
func (r *Router) Routes(method string) []*Route {
	out := make([]*Route, len(r.routes[method]))
	copy(out, r.routes[method])
	return out
}

// Walk calls fn for every route, grouped by method.
func (r *Router) Walk(fn func(route *Route) error) error {
	for _, method := range supportedMethods {
		for _, route := range r.routes[method] {
			if err := fn(route); err != nil {
				return err
			}
		}
	}
	return nil
}

// stripPrefix removes the router prefix from path and normalizes the rest.
// The prefix has to end on a segment boundary: "/api" owns "/api" and
// "/api/x" but not "/apix".
func (r *Router) stripPrefix(path string) (string, bool) {
	path = normalizePath(path)
	if r.prefix == "" {
		return path, true
	}

	rest, ok := strings.CutPrefix(path, r.prefix)
	if !ok || (rest != "" && rest[0] != '/') {
		return "", false
	}
	return normalizePath(rest), true
}
