package muxhandlers

import (
	"net/http"

	"github.com/vitalvas/kestrel/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, no logging is performed.
	LogFunc func(r *http.Request, err any)
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. When a panic occurs it answers 500 Internal Server
// Error, unless the response was already started, and optionally invokes
// LogFunc. The recovered panic does not reach the Server, so the connection
// is kept open.
//
// http.ErrAbortHandler is re-raised untouched.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			if cfg.LogFunc != nil {
				cfg.LogFunc(r, rec)
			}

			if mux.ResponseStatus(w) == 0 {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		return next()
	}
}
