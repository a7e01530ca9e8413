package muxhandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/kestrel/mux"
)

// ErrInvalidFrameOption is returned when SecurityHeadersConfig.FrameOption is
// not one of the valid values: "DENY", "SAMEORIGIN", or empty string.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures the Security Headers middleware behaviour.
type SecurityHeadersConfig struct {
	// DisableContentTypeNosniff disables the X-Content-Type-Options: nosniff
	// header.
	DisableContentTypeNosniff bool

	// FrameOption sets X-Frame-Options. Valid values are "DENY" and
	// "SAMEORIGIN". Defaults to "DENY".
	FrameOption string

	// ReferrerPolicy sets Referrer-Policy.
	// Defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge sets the max-age of Strict-Transport-Security in seconds.
	// When zero, the header is not set.
	HSTSMaxAge int

	// HSTSIncludeSubDomains appends includeSubDomains. Only effective when
	// HSTSMaxAge > 0.
	HSTSIncludeSubDomains bool

	// HSTSPreload appends preload. Only effective when HSTSMaxAge > 0.
	HSTSPreload bool

	// ContentSecurityPolicy sets Content-Security-Policy when not empty.
	ContentSecurityPolicy string
}

// SecurityHeadersMiddleware returns a middleware that sets common security
// response headers before calling the next handler. Download responses
// rely on X-Content-Type-Options to stop browsers from sniffing stored
// uploads as HTML.
//
// It returns ErrInvalidFrameOption if FrameOption is set to a value other than
// "DENY", "SAMEORIGIN", or empty string.
func SecurityHeadersMiddleware(cfg SecurityHeadersConfig) (mux.MiddlewareFunc, error) {
	if cfg.FrameOption != "" && cfg.FrameOption != "DENY" && cfg.FrameOption != "SAMEORIGIN" {
		return nil, ErrInvalidFrameOption
	}

	frameOption := cfg.FrameOption
	if frameOption == "" {
		frameOption = "DENY"
	}

	referrerPolicy := cfg.ReferrerPolicy
	if referrerPolicy == "" {
		referrerPolicy = "strict-origin-when-cross-origin"
	}

	var hstsValue string
	if cfg.HSTSMaxAge > 0 {
		hstsValue = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hstsValue += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hstsValue += "; preload"
		}
	}

	nosniff := !cfg.DisableContentTypeNosniff
	csp := cfg.ContentSecurityPolicy

	return func(w http.ResponseWriter, _ *http.Request, next mux.Next) error {
		h := w.Header()

		if nosniff {
			h.Set("X-Content-Type-Options", "nosniff")
		}

		h.Set("X-Frame-Options", frameOption)
		h.Set("Referrer-Policy", referrerPolicy)

		if hstsValue != "" {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if csp != "" {
			h.Set("Content-Security-Policy", csp)
		}

		return next()
	}, nil
}
