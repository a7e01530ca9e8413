package mux

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitalvas/kestrel/tempstore"
)

// Precedence decides in which order mount roots are tried.
type Precedence int

const (
	// GeneralMountsFirst tries mount roots from the shortest to the longest
	// matching prefix. A route on "/" shadows a route on "/api" for the same
	// request. This is the default.
	GeneralMountsFirst Precedence = iota

	// SpecificMountsFirst tries the longest matching mount root first.
	SpecificMountsFirst
)

// Mount is the ownership unit pairing one or more Routers and their shared
// middlewares to a mount root.
type Mount struct {
	root        string
	routers     []*Router
	middlewares []MiddlewareFunc
}

// Root returns the mount root.
func (m *Mount) Root() string {
	return m.root
}

// Routers returns the routers of the mount in registration order.
func (m *Mount) Routers() []*Router {
	out := make([]*Router, len(m.routers))
	copy(out, m.routers)
	return out
}

// Match is the outcome of resolving a request path.
type Match struct {
	// Path is the request path with the mount root removed.
	Path string

	Mount  *Mount
	Router *Router
	Route  *Route
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// DisableBodyParser removes the body parser from every chain.
	DisableBodyParser bool

	// BodyParser configures the body parser. The zero value enables all
	// decoders; see DefaultBodyParserConfig. When Store is nil the server's
	// temporary directory is used.
	BodyParser *BodyParserConfig

	// TempDir is where uploaded files are kept. Defaults to a "kestrel"
	// directory below os.TempDir.
	TempDir string

	// Precedence selects the mount root search order.
	Precedence Precedence

	// NotFoundHandler answers requests without a matching route or with an
	// unsupported method. Defaults to a plain text 404.
	NotFoundHandler MiddlewareFunc

	// ErrorLog is an optional callback invoked with every handler fault,
	// including recovered panics. When nil, faults are not reported.
	ErrorLog func(r *http.Request, err error)
}

// Server dispatches requests to routers mounted at literal path roots.
//
// It implements http.Handler:
//
//	s := mux.NewServer(mux.ServerConfig{})
//	s.Get("/", home)
//	s.Mount("/api", []*mux.Router{api}, auth)
//	http.ListenAndServe(":8080", s)
//
// Mounts and routes are set up before serving starts and are read
// concurrently, without locking, afterwards.
type Server struct {
	mounts     map[string]*Mount
	bodyParser MiddlewareFunc
	temp       *tempstore.Directory
	precedence Precedence
	notFound   MiddlewareFunc
	errorLog   func(r *http.Request, err error)
}

// NewServer returns a Server configured by cfg.
func NewServer(cfg ServerConfig) *Server {
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "kestrel")
	}

	s := &Server{
		mounts:     make(map[string]*Mount),
		temp:       tempstore.NewDirectory(tempDir),
		precedence: cfg.Precedence,
		notFound:   cfg.NotFoundHandler,
		errorLog:   cfg.ErrorLog,
	}

	if s.notFound == nil {
		s.notFound = DefaultNotFoundHandler
	}

	if !cfg.DisableBodyParser {
		bp := DefaultBodyParserConfig()
		if cfg.BodyParser != nil {
			bp = *cfg.BodyParser
		}
		if bp.Store == nil {
			bp.Store = s.temp
		}
		s.bodyParser = BodyParserMiddleware(bp)
	}

	return s
}

// NotFoundHandler returns the handler answering unmatched requests.
func (s *Server) NotFoundHandler() MiddlewareFunc {
	return s.notFound
}

// SetNotFoundHandler replaces the handler answering unmatched requests.
// A nil h restores DefaultNotFoundHandler. Like routes, it must be set
// before serving starts.
func (s *Server) SetNotFoundHandler(h MiddlewareFunc) {
	if h == nil {
		h = DefaultNotFoundHandler
	}
	s.notFound = h
}

// Temp returns the directory uploaded files are stored in.
func (s *Server) Temp() *tempstore.Directory {
	return s.temp
}

// Close removes the temporary directory and every file in it.
func (s *Server) Close() error {
	return s.temp.Delete()
}

// Mount registers routers and their shared middlewares at root. A second
// call with the same root replaces the previous mount entry. An empty root
// is ignored.
func (s *Server) Mount(root string, routers []*Router, middlewares ...MiddlewareFunc) *Server {
	if root == "" {
		return s
	}
	for _, r := range routers {
		if r == nil {
			panic("mux: nil router passed to Mount")
		}
	}

	root = normalizePath(root)
	s.mounts[root] = &Mount{
		root:        root,
		routers:     append([]*Router(nil), routers...),
		middlewares: append([]MiddlewareFunc(nil), middlewares...),
	}
	return s
}

// MountRouter is Mount for a single router.
func (s *Server) MountRouter(root string, router *Router, middlewares ...MiddlewareFunc) *Server {
	return s.Mount(root, []*Router{router}, middlewares...)
}

// Mounts returns the mount entry registered at root.
func (s *Server) Mounts(root string) (*Mount, bool) {
	m, ok := s.mounts[normalizePath(root)]
	return m, ok
}

// AddRoute registers a route on the first router of the "/" mount,
// creating the mount on first use.
func (s *Server) AddRoute(method, path string, handlers ...MiddlewareFunc) *Server {
	m, ok := s.mounts["/"]
	if !ok || len(m.routers) == 0 {
		s.MountRouter("/", NewRouter())
		m = s.mounts["/"]
	}
	m.routers[0].AddRoute(method, path, handlers...)
	return s
}

// Get registers a GET route on the "/" mount.
func (s *Server) Get(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodGet, path, handlers...)
}

// Post registers a POST route on the "/" mount.
func (s *Server) Post(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodPost, path, handlers...)
}

// Put registers a PUT route on the "/" mount.
func (s *Server) Put(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodPut, path, handlers...)
}

// Patch registers a PATCH route on the "/" mount.
func (s *Server) Patch(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodPatch, path, handlers...)
}

// Delete registers a DELETE route on the "/" mount.
func (s *Server) Delete(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodDelete, path, handlers...)
}

// Head registers a HEAD route on the "/" mount.
func (s *Server) Head(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodHead, path, handlers...)
}

// Options registers an OPTIONS route on the "/" mount.
func (s *Server) Options(path string, handlers ...MiddlewareFunc) *Server {
	return s.AddRoute(http.MethodOptions, path, handlers...)
}

// Resolve finds the mount, router and route serving pathname and method.
//
// Candidate mount roots are built from the leading segments of pathname.
// For every registered candidate, in the order given by the server
// precedence, each router of the mount is asked for a route in
// registration order; the first hit wins.
func (s *Server) Resolve(pathname, method string) (Match, error) {
	if !IsSupportedMethod(method) {
		return Match{}, ErrUnsupportedMethod
	}

	candidates := mountCandidates(pathname)
	if s.precedence == SpecificMountsFirst {
		for i, j := 0, len(candidates)-1; i < j; i, j = i+1, j-1 {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
	}

	for _, c := range candidates {
		m, ok := s.mounts[c.root]
		if !ok {
			continue
		}
		for _, router := range m.routers {
			if route := router.FindRoute(c.rest, method); route != nil {
				return Match{Path: c.rest, Mount: m, Router: router, Route: route}, nil
			}
		}
	}

	return Match{}, ErrNotFound
}

// ServeHTTP dispatches the request through the chain of the matched route:
// the body parser, the mount middlewares, then the route handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tw := &trackingWriter{ResponseWriter: w}

	match, err := s.Resolve(req.URL.Path, req.Method)
	if err != nil {
		s.serveChain(tw, withState(req, &requestState{}), Chain{s.notFound})
		return
	}

	st := &requestState{route: match.Route, mount: match.Mount}
	if match.Route.HasParams() {
		st.params = match.Router.Params(match.Path, match.Route)
	}
	req = withState(req, st)

	s.serveChain(tw, req, s.chainFor(match))
}

// chainFor assembles the handler list for a match.
func (s *Server) chainFor(m Match) Chain {
	chain := make(Chain, 0, 1+len(m.Mount.middlewares)+len(m.Route.handlers))
	if s.bodyParser != nil {
		chain = append(chain, s.bodyParser)
	}
	chain = append(chain, m.Mount.middlewares...)
	chain = append(chain, m.Route.handlers...)
	return chain
}

// serveChain runs chain and turns a fault into a bare 500 response on a
// closed connection.
func (s *Server) serveChain(w *trackingWriter, req *http.Request, chain Chain) {
	err := runRecover(w, req, chain)
	if err == nil {
		return
	}

	if s.errorLog != nil {
		s.errorLog(req, err)
	}

	if w.written {
		// The status line is gone; dropping the connection is the only
		// signal left.
		panic(http.ErrAbortHandler)
	}

	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusInternalServerError)
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("mux: handler panic: %v", e.Value)
}

func runRecover(w http.ResponseWriter, req *http.Request, chain Chain) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err = &PanicError{Value: v}
		}
	}()
	return chain.Run(w, req)
}

// DefaultNotFoundHandler answers with 404 and a short text body.
func DefaultNotFoundHandler(w http.ResponseWriter, _ *http.Request, _ Next) error {
	ResponseText(w, http.StatusNotFound, "404 Page Not Found.")
	return nil
}

type candidate struct {
	root string
	rest string
}

// mountCandidates lists every split of pathname into a mount root and the
// remaining path, from the shortest root ("/") to the whole path.
//
//	/api/x -> {"/", "/api/x"}, {"/api", "/x"}, {"/api/x", "/"}
func mountCandidates(pathname string) []candidate {
	segments := strings.Split(normalizePath(pathname), "/")

	out := make([]candidate, 0, len(segments))
	for i := 1; i <= len(segments); i++ {
		root := strings.Join(segments[:i], "/")
		if root == "" {
			root = "/"
		}
		if len(out) > 0 && out[len(out)-1].root == root {
			continue
		}
		out = append(out, candidate{
			root: root,
			rest: "/" + strings.Join(segments[i:], "/"),
		})
	}
	return out
}

// ResponseStatus returns the status code written to a response served by a
// Server, or 0 when the response has not been started or w was not created
// by a Server.
func ResponseStatus(w http.ResponseWriter) int {
	if tw, ok := w.(*trackingWriter); ok {
		return tw.status
	}
	return 0
}

// OnWriteHeader registers fn to run once, right before the status line of
// a response served by a Server is written. Hooks run in registration order
// and may still modify the headers. It reports false when w was not created
// by a Server or the response has already been started.
func OnWriteHeader(w http.ResponseWriter, fn func(status int)) bool {
	tw, ok := w.(*trackingWriter)
	if !ok || tw.written {
		return false
	}
	tw.beforeHeader = append(tw.beforeHeader, fn)
	return true
}

// trackingWriter remembers whether the response has been started and with
// which status.
type trackingWriter struct {
	http.ResponseWriter
	written      bool
	status       int
	beforeHeader []func(status int)
}

func (w *trackingWriter) start(code int) {
	if w.written {
		return
	}
	w.written = true
	w.status = code
	for _, fn := range w.beforeHeader {
		fn(code)
	}
	w.beforeHeader = nil
}

func (w *trackingWriter) WriteHeader(code int) {
	w.start(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.start(http.StatusOK)
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher when the underlying writer does.
func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.start(http.StatusOK)
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
