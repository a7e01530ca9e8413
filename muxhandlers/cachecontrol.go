package muxhandlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vitalvas/kestrel/mux"
)

// ErrNoCacheControlRules is returned when CacheControlConfig.Rules is empty.
var ErrNoCacheControlRules = errors.New("cache control: at least one rule is required")

// CacheControlRule maps a Content-Type prefix to Cache-Control and Expires
// header values.
type CacheControlRule struct {
	// ContentType is a case-insensitive prefix of the response Content-Type,
	// such as "image/" or "application/octet-stream".
	ContentType string

	// Value is the Cache-Control header value set when the rule matches.
	Value string

	// Expires is added to the current time to compute the Expires header.
	// Zero yields an already expired date; a negative value sets no
	// Expires header.
	Expires time.Duration
}

// CacheControlConfig configures the CacheControl middleware behaviour.
type CacheControlConfig struct {
	// Rules are evaluated in order and the first match wins. Required.
	Rules []CacheControlRule

	// DefaultValue is used for responses no rule matches. When empty, no
	// Cache-Control header is set for them.
	DefaultValue string

	// DefaultExpires is the Expires offset for unmatched responses, with the
	// same meaning as CacheControlRule.Expires.
	DefaultExpires time.Duration
}

type cacheControlRule struct {
	contentType string
	value       string
	expires     time.Duration
	hasExpires  bool
}

// CacheControlMiddleware returns a middleware that sets Cache-Control and
// Expires based on the response Content-Type, once the handler has chosen
// it. Headers the handler already set are left alone, and error responses
// (status >= 400) are not touched.
//
// The decision is made when the status line is written, which requires the
// response writer of a mux.Server. For any other writer the rules are
// applied before the next handler runs, using the Content-Type present at
// that point.
//
// It returns ErrNoCacheControlRules if Rules is empty.
func CacheControlMiddleware(cfg CacheControlConfig) (mux.MiddlewareFunc, error) {
	if len(cfg.Rules) == 0 {
		return nil, ErrNoCacheControlRules
	}

	rules := make([]cacheControlRule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		rules[i] = cacheControlRule{
			contentType: strings.ToLower(r.ContentType),
			value:       r.Value,
			expires:     r.Expires,
			hasExpires:  r.Expires >= 0,
		}
	}

	fallback := cacheControlRule{
		value:      cfg.DefaultValue,
		expires:    cfg.DefaultExpires,
		hasExpires: cfg.DefaultExpires >= 0,
	}

	apply := func(h http.Header, status int) {
		if status >= http.StatusBadRequest {
			return
		}

		ccSet := h.Get("Cache-Control") != ""
		exSet := h.Get("Expires") != ""
		if ccSet && exSet {
			return
		}

		ct := strings.ToLower(h.Get("Content-Type"))
		rule := fallback
		for _, candidate := range rules {
			if strings.HasPrefix(ct, candidate.contentType) {
				rule = candidate
				break
			}
		}

		if !ccSet && rule.value != "" {
			h.Set("Cache-Control", rule.value)
		}

		if !exSet && rule.hasExpires {
			h.Set("Expires", time.Now().UTC().Add(rule.expires).Format(http.TimeFormat))
		}
	}

	return func(w http.ResponseWriter, _ *http.Request, next mux.Next) error {
		h := w.Header()
		if !mux.OnWriteHeader(w, func(status int) { apply(h, status) }) {
			apply(h, http.StatusOK)
		}

		return next()
	}, nil
}
