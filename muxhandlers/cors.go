package muxhandlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/vitalvas/kestrel/mux"
)

// ErrWildcardCredentials is returned when AllowedOrigins contains "*" and
// AllowCredentials is true. Use AllowOriginFunc for dynamic origin checks
// with credentials.
var ErrWildcardCredentials = errors.New("wildcard origin \"*\" cannot be used with AllowCredentials; use AllowOriginFunc instead")

// CORSConfig configures the CORS middleware behaviour.
//
// References:
//   - CORS protocol: https://fetch.spec.whatwg.org/#http-cors-protocol
//   - Web Origin:    https://www.rfc-editor.org/rfc/rfc6454
type CORSConfig struct {
	// AllowedOrigins is a list of exact origin strings, "*" for wildcard,
	// or subdomain wildcard patterns like "https://*.example.com".
	AllowedOrigins []string

	// AllowOriginFunc is consulted when the origin does not match
	// AllowedOrigins. Return true to allow.
	AllowOriginFunc func(origin string) bool

	// AllowedMethods overrides the methods advertised to the client. When
	// empty, the methods the Server can route for the request path are
	// advertised.
	AllowedMethods []string

	// AllowedHeaders lists the request headers the client may send. When
	// empty, or when it contains "*", the preflight's
	// Access-Control-Request-Headers are reflected.
	AllowedHeaders []string

	// ExposeHeaders lists the response headers client code may read.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Negative values send "0", zero omits the header.
	MaxAge int

	// OptionsStatusCode is the status of preflight responses. Defaults to
	// 204 No Content.
	OptionsStatusCode int

	// OptionsPassthrough hands a preflight to the route's own OPTIONS
	// handlers after the CORS headers are set, instead of answering it.
	OptionsPassthrough bool
}

type wildcardPattern struct {
	prefix string
	suffix string
}

func (c *CORSConfig) hasWildcardOrigin() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// parseOrigins normalizes AllowedOrigins to lowercase and splits them into
// exact matches and wildcard patterns.
func parseOrigins(origins []string) ([]string, []wildcardPattern, error) {
	var exact []string
	var patterns []wildcardPattern

	for _, o := range origins {
		if o == "*" {
			exact = append(exact, o)
			continue
		}

		lower := strings.ToLower(o)

		prefix, suffix, found := strings.Cut(lower, "*")
		if !found {
			exact = append(exact, lower)
			continue
		}
		if strings.Contains(suffix, "*") {
			return nil, nil, errors.New("origin pattern contains multiple wildcards: " + o)
		}

		patterns = append(patterns, wildcardPattern{prefix: prefix, suffix: suffix})
	}

	return exact, patterns, nil
}

func matchOrigin(originLower string, exactOrigins []string, patterns []wildcardPattern) bool {
	for _, o := range exactOrigins {
		if o == "*" || o == originLower {
			return true
		}
	}

	for _, wp := range patterns {
		if len(originLower) >= len(wp.prefix)+len(wp.suffix) &&
			strings.HasPrefix(originLower, wp.prefix) &&
			strings.HasSuffix(originLower, wp.suffix) {
			return true
		}
	}

	return false
}

// cors holds a validated CORSConfig.
type cors struct {
	cfg             CORSConfig
	srv             *mux.Server
	exactOrigins    []string
	patterns        []wildcardPattern
	headersWildcard bool
	preflightStatus int
	specificOrigins bool
}

// CORSMiddleware returns a middleware implementing the CORS protocol for
// routes served by srv. It validates the Origin header, answers preflight
// OPTIONS requests and sets the response headers of actual requests.
//
// Mount middlewares only run for matched routes, so a preflight for a path
// without an OPTIONS route would reach the not-found handler. CORSMiddleware
// therefore also wraps srv's not-found handler to answer preflights for any
// path srv can route with another method.
//
// It returns an error if the configuration is invalid (e.g. wildcard origin
// combined with AllowCredentials).
func CORSMiddleware(srv *mux.Server, cfg CORSConfig) (mux.MiddlewareFunc, error) {
	if cfg.hasWildcardOrigin() && cfg.AllowCredentials {
		return nil, ErrWildcardCredentials
	}

	exact, patterns, err := parseOrigins(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	c := &cors{
		cfg:             cfg,
		srv:             srv,
		exactOrigins:    exact,
		patterns:        patterns,
		headersWildcard: slices.Contains(cfg.AllowedHeaders, "*"),
		preflightStatus: cfg.OptionsStatusCode,
		specificOrigins: !cfg.hasWildcardOrigin() &&
			(len(exact) > 0 || len(patterns) > 0 || cfg.AllowOriginFunc != nil),
	}
	if c.preflightStatus == 0 {
		c.preflightStatus = http.StatusNoContent
	}

	prevNotFound := srv.NotFoundHandler()
	srv.SetNotFoundHandler(func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		origin := r.Header.Get("Origin")
		if isPreflight(r) && origin != "" && c.allowed(origin) && len(c.routable(r)) > 0 {
			c.setOriginHeaders(w, origin)
			c.preflight(w, r, c.methods(r))
			w.WriteHeader(c.preflightStatus)
			return nil
		}

		return prevNotFound(w, r, next)
	})

	return c.serve, nil
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func (c *cors) serve(w http.ResponseWriter, r *http.Request, next mux.Next) error {
	origin := r.Header.Get("Origin")
	if origin == "" {
		if c.specificOrigins {
			w.Header().Add("Vary", "Origin")
		}
		return next()
	}

	if !c.allowed(origin) {
		return next()
	}

	c.setOriginHeaders(w, origin)

	if isPreflight(r) {
		c.preflight(w, r, c.methods(r))
		if c.cfg.OptionsPassthrough {
			return next()
		}
		w.WriteHeader(c.preflightStatus)
		return nil
	}

	if methods := c.methods(r); len(methods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
	}

	if len(c.cfg.ExposeHeaders) > 0 {
		w.Header().Set("Access-Control-Expose-Headers", strings.Join(c.cfg.ExposeHeaders, ","))
	}

	return next()
}

func (c *cors) allowed(origin string) bool {
	if matchOrigin(strings.ToLower(origin), c.exactOrigins, c.patterns) {
		return true
	}
	return c.cfg.AllowOriginFunc != nil && c.cfg.AllowOriginFunc(origin)
}

func (c *cors) setOriginHeaders(w http.ResponseWriter, origin string) {
	if c.cfg.hasWildcardOrigin() && !c.cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	if c.cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func (c *cors) preflight(w http.ResponseWriter, r *http.Request, methods []string) {
	h := w.Header()

	if len(methods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
	}

	reqHeaders := r.Header.Get("Access-Control-Request-Headers")
	switch {
	case c.headersWildcard || len(c.cfg.AllowedHeaders) == 0:
		if reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
		}
	default:
		h.Set("Access-Control-Allow-Headers", strings.Join(c.cfg.AllowedHeaders, ","))
	}

	if c.cfg.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(c.cfg.MaxAge))
	} else if c.cfg.MaxAge < 0 {
		h.Set("Access-Control-Max-Age", "0")
	}

	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")
}

// methods returns the configured methods, or the routable ones.
func (c *cors) methods(r *http.Request) []string {
	if len(c.cfg.AllowedMethods) > 0 {
		return c.cfg.AllowedMethods
	}
	return c.routable(r)
}

// routable returns every method srv can route for the request path.
func (c *cors) routable(r *http.Request) []string {
	var out []string
	for _, m := range mux.SupportedMethods() {
		if _, err := c.srv.Resolve(r.URL.Path, m); err == nil {
			out = append(out, m)
		}
	}
	return out
}
