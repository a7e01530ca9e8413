// Package muxhandlers provides optional middlewares for the mux Server.
//
// Every middleware is a mux.MiddlewareFunc: it runs its part, then either
// continues the chain by calling next or ends it by writing a response.
// Middlewares are attached to a mount entry or listed before the route
// handler:
//
//	rid := muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{})
//	s.MountRouter("/api", api, rid)
//
// Constructors that validate their configuration return an error next to
// the middleware.
//
// # Recovery Middleware
//
// RecoveryMiddleware turns a panic further down the chain into a 500
// response and reports the recovered value to RecoveryConfig.LogFunc. The
// Server recovers panics on its own; this middleware keeps the connection
// open and gives access to the raw value.
//
// # Request ID Middleware
//
// RequestIDMiddleware generates or propagates an X-Request-ID header and
// exposes the value through RequestID.
//
//	mw := muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
//	    GenerateFunc:  muxhandlers.GenerateUUIDv7,
//	    TrustIncoming: true,
//	})
//
// # Request Size Limit Middleware
//
// RequestSizeLimitMiddleware rejects bodies larger than MaxBytes with 413.
//
// # Server Middleware
//
// ServerMiddleware adds an X-Server-Hostname response header.
//
// # Rate Limit Middleware
//
// RateLimitMiddleware applies a token bucket per client, keyed by ClientIP
// unless RateLimitConfig.KeyFunc says otherwise, and answers 429 with a
// Retry-After header when the bucket is empty.
//
// # Tracing Middleware
//
// TracingMiddleware starts an OpenTelemetry server span per request, named
// after the method and route template. Span returns it to later handlers.
//
// # Content-Type Check Middleware
//
// ContentTypeCheckMiddleware answers 415 when a POST, PUT or PATCH request
// carries a media type outside the allowed list.
//
// # Basic Auth Middleware
//
// BasicAuthMiddleware implements RFC 7617 Basic authentication and exposes
// the user through BasicUser.
//
// # Security Headers Middleware
//
// SecurityHeadersMiddleware sets X-Content-Type-Options, X-Frame-Options,
// Referrer-Policy and, when configured, HSTS and a Content-Security-Policy.
//
// # Cache Control Middleware
//
// CacheControlMiddleware picks Cache-Control and Expires values from the
// response Content-Type once the handler has written its status:
//
//	cache, err := muxhandlers.CacheControlMiddleware(muxhandlers.CacheControlConfig{
//	    Rules:        []muxhandlers.CacheControlRule{{ContentType: "image/", Value: "public, max-age=86400"}},
//	    DefaultValue: "no-cache",
//	})
//
// # CORS Middleware
//
// CORSMiddleware handles cross-origin requests for the routes of a Server.
// It takes the Server so it can list the methods a path supports and answer
// preflight requests for paths that have no OPTIONS route.
//
// # File Download Handler
//
// FileDownloadHandler serves files from a directory by a route parameter,
// honouring Range headers:
//
//	files, err := muxhandlers.FileDownloadHandler(muxhandlers.FileDownloadConfig{
//	    Root: "/srv/files",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.Get("/files/:name", files)
package muxhandlers
