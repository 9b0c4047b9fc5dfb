package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLocal(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestNewTCPProber_DefaultPort(t *testing.T) {
	assert.Equal(t, DefaultTCPPort, NewTCPProber(0).Port)
	assert.Equal(t, DefaultTCPPort, NewTCPProber(-5).Port)
	assert.Equal(t, 22, NewTCPProber(22).Port)
}

func TestTCPProber_OpenPort(t *testing.T) {
	ln, port := listenLocal(t)
	defer ln.Close()

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	o := NewTCPProber(port).Probe(context.Background(), "127.0.0.1", 2*time.Second)
	assert.Equal(t, KindLatency, o.Kind)
	assert.GreaterOrEqual(t, o.RTT, 0.0)
}

func TestTCPProber_RefusedCountsAsReply(t *testing.T) {
	ln, port := listenLocal(t)
	require.NoError(t, ln.Close())

	o := NewTCPProber(port).Probe(context.Background(), "127.0.0.1", 2*time.Second)
	assert.Equal(t, KindLatency, o.Kind)
}

func TestTCPConnect_TimeoutIsError(t *testing.T) {
	p := NewTCPProber(443)
	p.dial = func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	timeout := 50 * time.Millisecond
	start := time.Now()
	o := p.Probe(context.Background(), "192.0.2.1", timeout)
	elapsed := time.Since(start)

	assert.Equal(t, KindError, o.Kind)
	var pe *ProbeError
	require.True(t, errors.As(o.Err, &pe))
	assert.Equal(t, ProbeFailTimeout, pe.Reason)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestTCPProber_ResolveFailureIsError(t *testing.T) {
	p := NewTCPProber(443)
	p.dial = func(_ context.Context, _, addr string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{
			Err: "no such host", Name: "nope.invalid", IsNotFound: true,
		}}
	}

	o := p.Probe(context.Background(), "nope.invalid", time.Second)
	assert.Equal(t, KindError, o.Kind)

	var pe *ProbeError
	require.ErrorAs(t, o.Err, &pe)
	assert.Equal(t, ProbeFailResolve, pe.Reason)
}

func TestTCPProber_UnreachableIsError(t *testing.T) {
	p := NewTCPProber(443)
	p.dial = func(context.Context, string, string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errString("connect: no route to host")}
	}

	o := p.Probe(context.Background(), "10.255.255.1", time.Second)
	assert.Equal(t, KindError, o.Kind)
}

func TestTCPProber_InvalidTimeout(t *testing.T) {
	called := false
	p := NewTCPProber(443)
	p.dial = func(context.Context, string, string) (net.Conn, error) {
		called = true
		return nil, nil
	}

	for _, timeout := range []time.Duration{0, -time.Second} {
		o := p.Probe(context.Background(), "127.0.0.1", timeout)
		assert.Equal(t, KindError, o.Kind)

		var pe *ProbeError
		require.ErrorAs(t, o.Err, &pe)
		assert.Equal(t, ProbeFailInvalidTimeout, pe.Reason)
	}
	assert.False(t, called, "dial must not run with an invalid timeout")
}

func TestTCPProber_CallerCancel(t *testing.T) {
	p := NewTCPProber(443)
	p.dial = func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	o := p.Probe(ctx, "192.0.2.1", time.Hour)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, KindError, o.Kind)
}

func TestTCPConnect_NoDialAfterCancel(t *testing.T) {
	p := NewTCPProber(443)
	called := false
	p.dial = func(context.Context, string, string) (net.Conn, error) {
		called = true
		return nil, errors.New("dial should not run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := p.Probe(ctx, "192.0.2.1", time.Second)
	assert.Equal(t, KindError, o.Kind)
	assert.False(t, called, "dial ran after the caller gave up")
}

func TestTCPAddress(t *testing.T) {
	tests := []struct {
		target string
		port   int
		want   string
	}{
		{"8.8.8.8", 443, "8.8.8.8:443"},
		{"google.com", 80, "google.com:80"},
		{"::1", 443, "[::1]:443"},
		{"example.com:8443", 443, "example.com:8443"},
		{"[2001:db8::1]:22", 443, "[2001:db8::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, tcpAddress(tt.target, tt.port))
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
