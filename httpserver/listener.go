package httpserver

import (
	"fmt"
	"net"

	"golang.org/x/net/netutil"
)

// Listen opens a TCP listener on addr. When maxConns is positive, at most
// maxConns connections are accepted at a time; further clients wait in the
// kernel backlog.
func Listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("httpserver: listen %s: %w", addr, err)
	}

	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}

	return ln, nil
}
