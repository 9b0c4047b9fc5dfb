package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultTCPPort is dialed when no port is configured.
const DefaultTCPPort = 443

// TCPProber times a TCP handshake to Port.
//
// It is the fallback when ICMP sockets are unavailable. A refused
// connection still proves the host answered, so it counts as a reply.
type TCPProber struct {
	Port int

	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewTCPProber creates a TCP connect prober. A non-positive port means
// DefaultTCPPort.
func NewTCPProber(port int) *TCPProber {
	if port <= 0 {
		port = DefaultTCPPort
	}
	return &TCPProber{
		Port: port,
		dial: (&net.Dialer{}).DialContext,
	}
}

// Probe dials target once and reports how long the handshake took.
func (p *TCPProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	if timeout <= 0 {
		return invalidTimeout(target, timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return failure(ctx, target, err)
	}

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", tcpAddress(target, p.Port))
	rtt := time.Since(start)
	if err == nil {
		_ = conn.Close()
		return LatencyOf(rtt)
	}

	pe := categorizeProbeError(target, err)
	if pe.Reason == ProbeFailRefused {
		return LatencyOf(rtt)
	}
	if pe.Reason == ProbeFailResolve {
		return Failed(pe)
	}
	return failure(ctx, target, err)
}

// tcpAddress joins target and port unless target already names a port.
func tcpAddress(target string, port int) string {
	if _, _, err := net.SplitHostPort(target); err == nil {
		return target
	}
	return net.JoinHostPort(target, strconv.Itoa(port))
}
