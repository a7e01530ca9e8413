// Command kestrel serves file downloads and uploads with the mux Server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/vitalvas/kestrel/httpserver"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	flag.Parse()

	cfg := httpserver.DefaultConfig()
	if *configPath != "" {
		loaded, err := httpserver.LoadConfig(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.Addr, "temp_dir", srv.Temp().Path())

	if err := httpserver.Run(context.Background(), cfg, srv, srv.Close); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
