package mux

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/vitalvas/kestrel/byterange"
)

// stateContextKey is an unexported type for the single context key.
type stateContextKey struct{}

var ctxKey = stateContextKey{}

// requestState is the per-request data attached by the Server before the
// chain runs. Handlers share the pointer, so the body parser can publish
// the decoded body to the handlers after it.
type requestState struct {
	route  *Route
	mount  *Mount
	params map[string]string

	mu      sync.Mutex
	body    any
	rawBody []byte
	parsed  bool
	values  map[any]any

	acceptOnce      sync.Once
	accept          []string
	contentTypeOnce sync.Once
	contentType     mediaType
	cookiesOnce     sync.Once
	cookies         map[string]string
	rangeOnce       sync.Once
	rangeSpec       byterange.Spec
}

func withState(r *http.Request, st *requestState) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey, st))
}

func stateOf(r *http.Request) *requestState {
	st, _ := r.Context().Value(ctxKey).(*requestState)
	return st
}

// Params returns the route parameters for the current request, if any.
func Params(r *http.Request) map[string]string {
	if st := stateOf(r); st != nil {
		return st.params
	}
	return nil
}

// Param returns a single route parameter and whether it exists.
func Param(r *http.Request, name string) (string, bool) {
	if st := stateOf(r); st != nil && st.params != nil {
		val, ok := st.params[name]
		return val, ok
	}
	return "", false
}

// SetParams returns a copy of r carrying the given route parameters. It is
// intended for testing handlers outside a Server.
func SetParams(r *http.Request, params map[string]string) *http.Request {
	st := &requestState{params: params}
	if prev := stateOf(r); prev != nil {
		st.route = prev.route
		st.mount = prev.mount
	}
	return withState(r, st)
}

// CurrentRoute returns the route matched for the current request.
func CurrentRoute(r *http.Request) *Route {
	if st := stateOf(r); st != nil {
		return st.route
	}
	return nil
}

// CurrentMount returns the mount entry that served the current request.
func CurrentMount(r *http.Request) *Mount {
	if st := stateOf(r); st != nil {
		return st.mount
	}
	return nil
}

// Body returns the body decoded by the body parser: any for JSON,
// url.Values for urlencoded forms, formdata.Form for multipart forms and
// string for everything else or when decoding failed. It is nil for
// methods without a parsed body.
func Body(r *http.Request) any {
	if st := stateOf(r); st != nil {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.body
	}
	return nil
}

// RawBody returns the body bytes read by the body parser.
func RawBody(r *http.Request) []byte {
	if st := stateOf(r); st != nil {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.rawBody
	}
	return nil
}

// BodyParsed reports whether the body parser has consumed the body.
func BodyParsed(r *http.Request) bool {
	if st := stateOf(r); st != nil {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.parsed
	}
	return false
}

func setBody(r *http.Request, raw []byte, body any) {
	st := stateOf(r)
	if st == nil {
		return
	}
	st.mu.Lock()
	st.rawBody = raw
	st.body = body
	st.parsed = true
	st.mu.Unlock()
}

// SetValue stores a request-scoped value visible to every later handler
// of the chain. Handlers share one *http.Request, so values set here replace
// the usual context.WithValue hand-off. It reports false when r carries no
// request state.
func SetValue(r *http.Request, key, val any) bool {
	st := stateOf(r)
	if st == nil {
		return false
	}
	st.mu.Lock()
	if st.values == nil {
		st.values = make(map[any]any)
	}
	st.values[key] = val
	st.mu.Unlock()
	return true
}

// Value returns the value stored under key by SetValue, or nil.
func Value(r *http.Request, key any) any {
	st := stateOf(r)
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.values[key]
}

// ErrNotFound is returned by Server.Resolve when no mount and route match.
var ErrNotFound = errors.New("no matching route was found")

// ErrUnsupportedMethod is returned by Server.Resolve for methods a Router
// cannot register.
var ErrUnsupportedMethod = errors.New("method is not supported")
