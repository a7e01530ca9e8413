package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	t.Run("serves until cancelled then cleans up", func(t *testing.T) {
		ln, err := Listen("127.0.0.1:0", 4)
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.ShutdownTimeout = time.Second

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "pong")
		})

		ctx, cancel := context.WithCancel(context.Background())
		cleaned := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- Serve(ctx, ln, cfg, handler, func() error {
				close(cleaned)
				return nil
			})
		}()

		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, "pong", string(body))

		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
		_, open := <-cleaned
		assert.False(t, open)
	})

	t.Run("cleanup error is reported", func(t *testing.T) {
		ln, err := Listen("127.0.0.1:0", 0)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		boom := errors.New("boom")
		err = Serve(ctx, ln, DefaultConfig(), http.NotFoundHandler(), func() error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestRun(t *testing.T) {
	t.Run("listen failure still cleans up", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Addr = "256.0.0.1:bad"

		cleaned := false
		err := Run(context.Background(), cfg, http.NotFoundHandler(), func() error {
			cleaned = true
			return nil
		})

		assert.Error(t, err)
		assert.True(t, cleaned)
	})
}
