package mux

import "net/http"

// Next runs the rest of the chain and returns the first fault raised by
// any of the remaining handlers.
type Next func() error

// MiddlewareFunc is one link of a request chain. A handler passes control
// on by calling next; returning without calling next ends the chain and
// makes the current response final. A returned error aborts the chain.
//
// next is never nil. For the last handler of a chain it does nothing.
type MiddlewareFunc func(w http.ResponseWriter, r *http.Request, next Next) error

// Chain is an ordered list of handlers executed one after another for a
// single request.
type Chain []MiddlewareFunc

// Run executes the chain against w and r. Handlers run strictly in order
// on the calling goroutine. The first error returned by any handler is
// recorded; once recorded, later calls to next return it without running
// further handlers, even if an outer handler chose to ignore it.
//
// Outside a Server, Run attaches fresh request state so that the body
// parser and the request accessors work for the handlers in c.
func (c Chain) Run(w http.ResponseWriter, r *http.Request) error {
	if len(c) == 0 {
		return nil
	}
	if stateOf(r) == nil {
		r = withState(r, &requestState{})
	}

	run := &chainRun{chain: c, w: w, r: r}
	if err := run.call(0); err != nil {
		return err
	}
	return run.fault
}

type chainRun struct {
	chain Chain
	w     http.ResponseWriter
	r     *http.Request
	fault error
}

func (c *chainRun) call(i int) error {
	if c.fault != nil {
		return c.fault
	}
	if i >= len(c.chain) {
		return nil
	}

	next := func() error {
		return c.call(i + 1)
	}

	if err := c.chain[i](c.w, c.r, next); err != nil {
		if c.fault == nil {
			c.fault = err
		}
		return c.fault
	}
	return nil
}

// HandlerFunc adapts a plain terminal handler that never continues the
// chain.
func HandlerFunc(fn func(w http.ResponseWriter, r *http.Request) error) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, _ Next) error {
		return fn(w, r)
	}
}

// WrapHandler adapts an http.Handler as a terminal handler.
func WrapHandler(h http.Handler) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, _ Next) error {
		h.ServeHTTP(w, r)
		return nil
	}
}

// WrapMiddleware adapts a standard func(http.Handler) http.Handler
// middleware. The wrapped handler continues the chain when the standard
// middleware calls its inner handler.
func WrapMiddleware(mw func(http.Handler) http.Handler) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, next Next) error {
		var err error
		inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			err = next()
		})
		mw(inner).ServeHTTP(w, r)
		return err
	}
}
