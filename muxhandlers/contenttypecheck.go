package muxhandlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vitalvas/kestrel/mux"
)

// ErrNoAllowedTypes is returned when ContentTypeCheckConfig.AllowedTypes is
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures the Content-Type Check middleware behaviour.
type ContentTypeCheckConfig struct {
	// AllowedTypes is the set of acceptable media types. Matching is
	// case-insensitive and ignores parameters, so "multipart/form-data"
	// matches "multipart/form-data; boundary=x". Required.
	AllowedTypes []string

	// Methods is the set of HTTP methods whose body is checked. When nil,
	// defaults to the methods the body parser reads: POST, PUT, PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

// ContentTypeCheckMiddleware returns a middleware that answers 415
// Unsupported Media Type when a request with a checked method carries no
// Content-Type, or one outside AllowedTypes.
//
// The media type is read through mux.ContentType, so the check agrees with
// the body parser on how the header is interpreted. Placed on a mount, it
// runs after the body parser; an unacceptable body is then parsed but never
// reaches the route.
//
// It returns ErrNoAllowedTypes if AllowedTypes is empty.
func ContentTypeCheckMiddleware(cfg ContentTypeCheckConfig) (mux.MiddlewareFunc, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}

	allowedSet := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowedSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		if _, check := methodSet[r.Method]; !check {
			return next()
		}

		if _, ok := allowedSet[mux.ContentType(r)]; !ok {
			http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
			return nil
		}

		return next()
	}, nil
}
