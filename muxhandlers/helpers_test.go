package muxhandlers

import (
	"net/http"
	"testing"

	"github.com/vitalvas/kestrel/mux"
)

func newServer(t *testing.T) *mux.Server {
	t.Helper()
	return mux.NewServer(mux.ServerConfig{TempDir: t.TempDir()})
}

func okHandler(w http.ResponseWriter, _ *http.Request, _ mux.Next) error {
	w.WriteHeader(http.StatusOK)
	return nil
}
