package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/kestrel/mux"
)

func TestCacheControlMiddleware(t *testing.T) {
	t.Run("requires rules", func(t *testing.T) {
		_, err := CacheControlMiddleware(CacheControlConfig{})
		assert.ErrorIs(t, err, ErrNoCacheControlRules)
	})

	cfg := CacheControlConfig{
		Rules: []CacheControlRule{
			{ContentType: "application/octet-stream", Value: "private, max-age=3600", Expires: time.Hour},
			{ContentType: "Application/JSON", Value: "no-store", Expires: -1},
		},
		DefaultValue:   "no-cache",
		DefaultExpires: -1,
	}

	respond := func(contentType string, status int) mux.MiddlewareFunc {
		return func(w http.ResponseWriter, _ *http.Request, _ mux.Next) error {
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(status)
			return nil
		}
	}

	serve := func(t *testing.T, handler mux.MiddlewareFunc) http.Header {
		t.Helper()
		mw, err := CacheControlMiddleware(cfg)
		require.NoError(t, err)

		s := newServer(t)
		s.Get("/", mw, handler)

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Header()
	}

	t.Run("matches the content type chosen by the handler", func(t *testing.T) {
		h := serve(t, respond("application/octet-stream", http.StatusPartialContent))

		assert.Equal(t, "private, max-age=3600", h.Get("Cache-Control"))
		expires, err := http.ParseTime(h.Get("Expires"))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)
	})

	t.Run("prefix match is case-insensitive", func(t *testing.T) {
		h := serve(t, respond("application/json; charset=utf-8", http.StatusOK))

		assert.Equal(t, "no-store", h.Get("Cache-Control"))
		assert.Empty(t, h.Get("Expires"))
	})

	t.Run("default for unmatched types", func(t *testing.T) {
		h := serve(t, respond("text/plain", http.StatusOK))

		assert.Equal(t, "no-cache", h.Get("Cache-Control"))
		assert.Empty(t, h.Get("Expires"))
	})

	t.Run("keeps handler headers", func(t *testing.T) {
		h := serve(t, func(w http.ResponseWriter, _ *http.Request, _ mux.Next) error {
			w.Header().Set("Cache-Control", "public")
			mux.ResponseText(w, http.StatusOK, "x")
			return nil
		})

		assert.Equal(t, "public", h.Get("Cache-Control"))
	})

	t.Run("skips error responses", func(t *testing.T) {
		h := serve(t, respond("application/octet-stream", http.StatusRequestedRangeNotSatisfiable))

		assert.Empty(t, h.Get("Cache-Control"))
		assert.Empty(t, h.Get("Expires"))
	})

	t.Run("outside a server", func(t *testing.T) {
		mw, err := CacheControlMiddleware(cfg)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, mux.Chain{mw, respond("application/json", http.StatusOK)}.Run(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	})
}
