// Package probe measures round-trip latency to a single target.
//
// A Prober sends exactly one echo request (or one TCP connect) per call and
// waits at most the given timeout, name resolution included. It never
// retries and keeps no state between calls beyond a sequence counter, so
// one Prober can serve any number of concurrent calls.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/logger"
)

// Prober performs a single bounded latency measurement.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) Outcome
}

// Func adapts an ordinary function to the Prober interface.
type Func func(ctx context.Context, target string, timeout time.Duration) Outcome

// Probe calls f.
func (f Func) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	return f(ctx, target, timeout)
}

// Method names reported by New.
const (
	MethodICMP             = "icmp"
	MethodICMPUnprivileged = "icmp-unprivileged"
	MethodTCP              = "tcp"
)

// Config selects a probe implementation.
type Config struct {
	// Method is "auto", "icmp", or "tcp". Empty means "auto".
	Method string
	// TCPPort is dialed by the TCP probe. Zero means 443.
	TCPPort int
	Logger  logger.Logger
}

// New builds the Prober for cfg and reports which method it settled on.
//
// "auto" prefers a privileged ICMP socket, then an unprivileged datagram
// ICMP socket, and falls back to TCP connect timing when neither can be
// opened. "icmp" fails when no ICMP socket is available.
func New(cfg Config) (Prober, string, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}

	switch strings.ToLower(cfg.Method) {
	case "", "auto":
		p, method, err := openICMP()
		if err == nil {
			return p, method, nil
		}
		log.Info("ICMP unavailable (%v), timing TCP connects instead", err)
		tcp := NewTCPProber(cfg.TCPPort)
		return tcp, fmt.Sprintf("%s:%d", MethodTCP, tcp.Port), nil

	case "icmp":
		p, method, err := openICMP()
		if err != nil {
			return nil, "", pberrors.WrapWithCode(err, pberrors.ErrStartup,
				"Can't open an ICMP socket",
				"Run with elevated privileges, allow unprivileged ping (net.ipv4.ping_group_range), or use --method tcp")
		}
		return p, method, nil

	case "tcp":
		tcp := NewTCPProber(cfg.TCPPort)
		return tcp, fmt.Sprintf("%s:%d", MethodTCP, tcp.Port), nil

	default:
		return nil, "", pberrors.New(pberrors.ErrStartup,
			fmt.Sprintf("Unknown probe method '%s'", cfg.Method),
			"Use one of: auto, icmp, tcp")
	}
}

// openICMP returns the most capable ICMP prober this process can use.
func openICMP() (*ICMPProber, string, error) {
	privileged := NewICMPProber(true)
	if err := privileged.Check(); err == nil {
		return privileged, MethodICMP, nil
	}

	unprivileged := NewICMPProber(false)
	if err := unprivileged.Check(); err != nil {
		return nil, "", err
	}
	return unprivileged, MethodICMPUnprivileged, nil
}

// ProbeError represents a failed probe with categorized failure reason.
type ProbeError struct {
	Target string
	Reason ProbeFailReason
	Cause  error
}

// ProbeFailReason categorizes why a probe failed.
type ProbeFailReason int

const (
	ProbeFailUnknown ProbeFailReason = iota
	ProbeFailTimeout
	ProbeFailRefused
	ProbeFailUnreachable
	ProbeFailResolve
	ProbeFailPermission
	ProbeFailInvalidTimeout
)

// String returns a human-readable description of the failure reason.
func (r ProbeFailReason) String() string {
	switch r {
	case ProbeFailTimeout:
		return "timed out"
	case ProbeFailRefused:
		return "connection refused"
	case ProbeFailUnreachable:
		return "host unreachable"
	case ProbeFailResolve:
		return "name resolution failed"
	case ProbeFailPermission:
		return "permission denied"
	case ProbeFailInvalidTimeout:
		return "timeout must be positive"
	default:
		return "unknown error"
	}
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("probe %s failed: %s (%v)", e.Target, e.Reason, e.Cause)
	}
	return fmt.Sprintf("probe %s failed: %s", e.Target, e.Reason)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// categorizeProbeError converts a generic error into a ProbeError with
// a categorized failure reason.
func categorizeProbeError(target string, err error) *ProbeError {
	if err == nil {
		return nil
	}

	probeErr := &ProbeError{
		Target: target,
		Reason: ProbeFailUnknown,
		Cause:  err,
	}

	// Resolution failures stay resolution failures even when the lookup
	// itself ran out of time.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		probeErr.Reason = ProbeFailResolve
		return probeErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		probeErr.Reason = ProbeFailTimeout
		return probeErr
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "no address found"):
		probeErr.Reason = ProbeFailResolve

	case strings.Contains(errStr, "timeout"):
		probeErr.Reason = ProbeFailTimeout

	case strings.Contains(errStr, "connection refused"):
		probeErr.Reason = ProbeFailRefused

	case strings.Contains(errStr, "no route to host"),
		strings.Contains(errStr, "network is unreachable"),
		strings.Contains(errStr, "host is down"),
		strings.Contains(errStr, "host unreachable"):
		probeErr.Reason = ProbeFailUnreachable

	case strings.Contains(errStr, "operation not permitted"),
		strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "access is denied"):
		probeErr.Reason = ProbeFailPermission
	}

	return probeErr
}

// outcomeFor maps a categorized failure onto the outcome taxonomy. A host
// that never answered is unreachable, timeouts included; KindSlow is kept
// for replies whose timing is unusable.
func outcomeFor(pe *ProbeError) Outcome {
	return Failed(pe)
}

// failure classifies err for target, letting the probe's own deadline win
// over whatever error the interrupted socket call produced.
func failure(ctx context.Context, target string, err error) Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Failed(&ProbeError{Target: target, Reason: ProbeFailTimeout, Cause: ctx.Err()})
	}
	if ctx.Err() != nil {
		return Failed(&ProbeError{Target: target, Reason: ProbeFailUnknown, Cause: ctx.Err()})
	}
	return outcomeFor(categorizeProbeError(target, err))
}

func invalidTimeout(target string, timeout time.Duration) Outcome {
	return Failed(&ProbeError{
		Target: target,
		Reason: ProbeFailInvalidTimeout,
		Cause:  fmt.Errorf("got %s", timeout),
	})
}

// resolve returns the address to probe, preferring IPv4.
func resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP, nil
		}
	}
	if len(addrs) > 0 {
		return addrs[0].IP, nil
	}
	return nil, &net.DNSError{Err: "no address found", Name: host, IsNotFound: true}
}
