// Package mux implements a request dispatcher that routes requests to
// routers mounted at literal path roots and runs an ordered chain of
// handlers for the matched route.
//
// # Routes
//
// A Router holds routes per method. Patterns consist of literal segments
// and parameter segments starting with a colon:
//
//	r := mux.NewRouter()
//	r.Get("/users/:id", showUser)
//	r.Put("/users/:id", authenticate, updateUser)
//
// A pattern matches a path with the same number of segments; literal
// segments must be equal and parameter segments must be non-empty. A
// trailing slash is ignored, so "/a/" and "/a" are the same route.
// Registering the same method and path again replaces the handlers.
//
// Routers may carry a prefix that is stripped before matching:
//
//	admin := mux.NewPrefixRouter("/admin", func(r *mux.Router) {
//	    r.Get("/stats", stats)
//	})
//
// # Mounts
//
// A Server owns mount entries keyed by root. Each entry holds one or more
// routers and middlewares shared by all of their routes:
//
//	s := mux.NewServer(mux.ServerConfig{})
//	s.Get("/", home) // lazily creates the "/" mount
//	s.Mount("/api", []*mux.Router{users, admin}, requireToken)
//
// For a request path, every prefix of whole segments is a candidate root.
// By default candidates are tried from the shortest ("/") to the longest,
// and the first router returning a route wins. A route on the "/" mount
// therefore shadows a route on "/api" matching the same request. Set
// ServerConfig.Precedence to SpecificMountsFirst to try the longest root
// first.
//
// # Handlers
//
// Every link of a chain is a MiddlewareFunc:
//
//	func authenticate(w http.ResponseWriter, r *http.Request, next mux.Next) error {
//	    if r.Header.Get("Authorization") == "" {
//	        w.WriteHeader(http.StatusUnauthorized)
//	        return nil // chain ends here
//	    }
//	    return next()
//	}
//
// The chain for a matched route is the body parser, the mount middlewares
// and the route handlers, in that order. A handler that returns an error
// or panics aborts the chain; the server answers 500 with an empty body and
// closes the connection.
//
// # Request data
//
// Route parameters, the decoded body and lazily parsed headers are read
// through accessors:
//
//	id, _ := mux.Param(r, "id")
//	body := mux.Body(r)          // any, url.Values, formdata.Form or string
//	cookies := mux.Cookies(r)
//	spec := mux.Range(r)         // parsed Range header
//
// All handlers of a chain share one *http.Request. A middleware hands data
// to later handlers with SetValue rather than by replacing the request:
//
//	mux.SetValue(r, userKey{}, user)
//
// # Downloads
//
// ResumableDownload serves a file honouring the Range header with 200, 206
// or 416 responses:
//
//	f, err := tempstore.Open("/srv/files/video.mp4")
//	if err != nil {
//	    return err
//	}
//	return mux.ResumableDownload(w, r, f)
package mux
