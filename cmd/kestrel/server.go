package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/kestrel/httpserver"
	"github.com/vitalvas/kestrel/mux"
	"github.com/vitalvas/kestrel/muxhandlers"
)

// newServer wires the routes and middlewares described by cfg.
func newServer(cfg httpserver.Config, logger *slog.Logger) (*mux.Server, error) {
	precedence := mux.GeneralMountsFirst
	if cfg.SpecificMountsFirst {
		precedence = mux.SpecificMountsFirst
	}

	srv := mux.NewServer(mux.ServerConfig{
		TempDir: cfg.TempDir,
		BodyParser: &mux.BodyParserConfig{
			ParseJSON:       cfg.BodyParser.JSON,
			ParseURLEncoded: cfg.BodyParser.URLEncoded,
			ParseFormData:   cfg.BodyParser.FormData,
			MaxBytes:        cfg.BodyParser.MaxBytes,
		},
		Precedence: precedence,
		ErrorLog: func(r *http.Request, err error) {
			logger.Error("handler fault",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", muxhandlers.RequestID(r),
				"error", err,
			)
		},
	})

	security, err := muxhandlers.SecurityHeadersMiddleware(muxhandlers.SecurityHeadersConfig{})
	if err != nil {
		return nil, err
	}

	hostname, err := muxhandlers.ServerMiddleware(muxhandlers.ServerConfig{
		HostnameEnv: []string{"POD_NAME", "HOSTNAME"},
	})
	if err != nil {
		return nil, err
	}

	middlewares := []mux.MiddlewareFunc{
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
			GenerateFunc:  muxhandlers.GenerateUUIDv7,
			TrustIncoming: true,
		}),
		accessLog(logger),
		muxhandlers.TracingMiddleware(muxhandlers.TracingConfig{}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
			LogFunc: func(r *http.Request, v any) {
				logger.Error("panic recovered",
					"path", r.URL.Path,
					"request_id", muxhandlers.RequestID(r),
					"panic", v,
				)
			},
		}),
		hostname,
		security,
	}

	if len(cfg.CORSOrigins) > 0 {
		cors, err := muxhandlers.CORSMiddleware(srv, muxhandlers.CORSConfig{
			AllowedOrigins: cfg.CORSOrigins,
			ExposeHeaders:  []string{"Content-Range", "Content-Disposition", "X-Request-ID"},
			MaxAge:         600,
		})
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, cors)
	}

	if cfg.RateLimit.RPS > 0 {
		limit, err := muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RPS,
			Burst:             cfg.RateLimit.Burst,
		})
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, limit)
	}

	uploadChain, err := uploadHandlers(cfg)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Get("/healthz", healthz)
	router.Post("/upload", uploadChain...)

	if cfg.FilesRoot != "" {
		filesChain, err := filesHandlers(cfg)
		if err != nil {
			return nil, err
		}
		router.Get("/files/:name", filesChain...)
		router.Head("/files/:name", filesChain...)
	}

	srv.MountRouter("/", router, middlewares...)

	return srv, nil
}

// uploadHandlers guards the upload echo with the optional credentials and
// the accepted body types.
func uploadHandlers(cfg httpserver.Config) ([]mux.MiddlewareFunc, error) {
	var chain []mux.MiddlewareFunc

	if len(cfg.UploadUsers) > 0 {
		auth, err := muxhandlers.BasicAuthMiddleware(muxhandlers.BasicAuthConfig{
			Realm:       "upload",
			Credentials: cfg.UploadUsers,
		})
		if err != nil {
			return nil, err
		}
		chain = append(chain, auth)
	}

	check, err := muxhandlers.ContentTypeCheckMiddleware(muxhandlers.ContentTypeCheckConfig{
		AllowedTypes: []string{
			mux.MIMEApplicationJSON,
			mux.MIMEURLEncodedForm,
			mux.MIMEMultipartForm,
			"text/plain",
		},
	})
	if err != nil {
		return nil, err
	}

	return append(chain, check, upload), nil
}

// filesHandlers serves FilesRoot, with caching headers when FilesMaxAge is set.
func filesHandlers(cfg httpserver.Config) ([]mux.MiddlewareFunc, error) {
	files, err := muxhandlers.FileDownloadHandler(muxhandlers.FileDownloadConfig{Root: cfg.FilesRoot})
	if err != nil {
		return nil, err
	}

	if cfg.FilesMaxAge <= 0 {
		return []mux.MiddlewareFunc{files}, nil
	}

	cache, err := muxhandlers.CacheControlMiddleware(muxhandlers.CacheControlConfig{
		Rules: []muxhandlers.CacheControlRule{
			{ContentType: "text/html", Value: "no-cache", Expires: -1},
		},
		DefaultValue:   fmt.Sprintf("public, max-age=%d", int(cfg.FilesMaxAge.Seconds())),
		DefaultExpires: cfg.FilesMaxAge,
	})
	if err != nil {
		return nil, err
	}

	return []mux.MiddlewareFunc{cache, files}, nil
}

// accessLog writes one line per request once the chain has finished.
func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		start := time.Now()
		err := next()

		route := ""
		if rt := mux.CurrentRoute(r); rt != nil {
			route = rt.Template()
		}

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", mux.ResponseStatus(w),
			"duration", time.Since(start),
			"request_id", muxhandlers.RequestID(r),
		)

		return err
	}
}
