// Package connectivity answers whether the upstream API host is reachable.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single reachability probe.
const DefaultTimeout = 3 * time.Second

// Checker reports network reachability before a query is started.
type Checker interface {
	Online(ctx context.Context) bool
}

// DialChecker probes reachability by opening a TCP connection to the API host.
type DialChecker struct {
	dialer *net.Dialer
	addr   string
}

// NewDialChecker creates a checker for the host of baseURL.
func NewDialChecker(baseURL string) (*DialChecker, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	return &DialChecker{
		dialer: &net.Dialer{Timeout: DefaultTimeout},
		addr:   net.JoinHostPort(u.Hostname(), port),
	}, nil
}

// Online reports whether a connection to the API host could be opened.
func (c *DialChecker) Online(ctx context.Context) bool {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return false
	}

	_ = conn.Close()

	return true
}

// Static is a Checker with a fixed answer.
type Static bool

// Online returns the fixed answer.
func (s Static) Online(context.Context) bool {
	return bool(s)
}
