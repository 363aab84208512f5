package delivery

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/matzehuels/sigpad/pkg/errors"
)

// Connectivity reports whether the endpoint is believed reachable. The
// signal is coarse: a wrong "online" answer costs one failed delivery
// cycle, after which the submission is queued anyway.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Static is a fixed connectivity answer.
type Static bool

// Online returns the fixed value.
func (s Static) Online(context.Context) bool { return bool(s) }

// DefaultProbeTimeout bounds a reachability probe.
const DefaultProbeTimeout = 2 * time.Second

// Probe reports online when a TCP connection to the endpoint host succeeds.
type Probe struct {
	addr    string
	timeout time.Duration
}

// NewProbe creates a probe for the host of endpoint. Ports default from the
// URL scheme.
func NewProbe(endpoint string, timeout time.Duration) (*Probe, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cannot probe endpoint %q", endpoint)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Probe{addr: net.JoinHostPort(u.Hostname(), port), timeout: timeout}, nil
}

// Addr returns the probed host:port.
func (p *Probe) Addr() string { return p.addr }

// Online dials the endpoint and closes the connection immediately.
func (p *Probe) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

var (
	_ Connectivity = Static(true)
	_ Connectivity = (*Probe)(nil)
)
