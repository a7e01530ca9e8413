package mux

// Route is a single method and path pattern registration with its ordered
// handler list.
type Route struct {
	method   string
	pattern  Pattern
	handlers []MiddlewareFunc
}

// Method returns the HTTP method the route was registered for.
func (r *Route) Method() string {
	return r.method
}

// Template returns the normalized path pattern, e.g. "/users/:id".
func (r *Route) Template() string {
	return r.pattern.String()
}

// Pattern returns the compiled path pattern.
func (r *Route) Pattern() Pattern {
	return r.pattern
}

// HasParams reports whether the route declares path parameters.
func (r *Route) HasParams() bool {
	return r.pattern.HasParams()
}

// Handlers returns a copy of the route's handler list.
func (r *Route) Handlers() []MiddlewareFunc {
	out := make([]MiddlewareFunc, len(r.handlers))
	copy(out, r.handlers)
	return out
}
