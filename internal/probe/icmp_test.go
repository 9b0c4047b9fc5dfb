package probe

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

func marshal(t *testing.T, m icmp.Message) []byte {
	t.Helper()
	b, err := m.Marshal(nil)
	require.NoError(t, err)
	return b
}

// quotedIPv4 builds the payload of an ICMPv4 error: a minimal IPv4 header
// followed by the first 8 bytes of the offending echo request.
func quotedIPv4(t *testing.T, echo *icmp.Echo) []byte {
	t.Helper()
	header := make([]byte, ipv4.HeaderLen)
	header[0] = 0x45
	header[9] = 1
	req := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEcho, Body: echo})
	return append(header, req[:8]...)
}

func TestNextEcho(t *testing.T) {
	p := NewICMPProber(false)

	a := p.nextEcho()
	b := p.nextEcho()
	assert.Equal(t, a.Seq+1, b.Seq)
	assert.Len(t, a.Data, 56)
	assert.Equal(t, "ping", string(a.Data[8:12]))
}

func TestMatchReply_EchoReply(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()

	reply := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: want})
	assert.Equal(t, replyEcho, matchReply(1, reply, want, true))
}

func TestMatchReply_IgnoresOtherSequence(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()
	other := *want
	other.Seq = want.Seq + 1

	reply := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &other})
	assert.Equal(t, replyIgnore, matchReply(1, reply, want, true))
}

func TestMatchReply_IgnoresStaleToken(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()
	stale := *want
	stale.Data = append([]byte(nil), want.Data...)
	stale.Data[0] ^= 0xff

	reply := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &stale})
	assert.Equal(t, replyIgnore, matchReply(1, reply, want, true))
}

func TestMatchReply_IdentifierCheck(t *testing.T) {
	p := NewICMPProber(false)
	want := p.nextEcho()
	rewritten := *want
	rewritten.ID = (want.ID + 1) & 0xffff

	reply := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &rewritten})
	assert.Equal(t, replyEcho, matchReply(1, reply, want, false), "datagram sockets rewrite the identifier")
	assert.Equal(t, replyIgnore, matchReply(1, reply, want, true))
}

func TestMatchReply_IgnoresOwnRequest(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()

	req := marshal(t, icmp.Message{Type: ipv4.ICMPTypeEcho, Body: want})
	assert.Equal(t, replyIgnore, matchReply(1, req, want, true))
}

func TestMatchReply_IgnoresGarbage(t *testing.T) {
	want := NewICMPProber(true).nextEcho()
	assert.Equal(t, replyIgnore, matchReply(1, []byte{0x00}, want, true))
	assert.Equal(t, replyIgnore, matchReply(1, nil, want, true))
}

func TestMatchReply_DestinationUnreachable(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()

	msg := marshal(t, icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Code: 1,
		Body: &icmp.DstUnreach{Data: quotedIPv4(t, want)},
	})
	assert.Equal(t, replyUnreachable, matchReply(1, msg, want, true))
}

func TestMatchReply_TimeExceeded(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()

	msg := marshal(t, icmp.Message{
		Type: ipv4.ICMPTypeTimeExceeded,
		Body: &icmp.TimeExceeded{Data: quotedIPv4(t, want)},
	})
	assert.Equal(t, replyUnreachable, matchReply(1, msg, want, true))
}

func TestMatchReply_UnreachableForSomeoneElse(t *testing.T) {
	p := NewICMPProber(true)
	want := p.nextEcho()
	other := *want
	other.Seq = want.Seq + 7

	msg := marshal(t, icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Body: &icmp.DstUnreach{Data: quotedIPv4(t, &other)},
	})
	assert.Equal(t, replyIgnore, matchReply(1, msg, want, true))
}

func TestMatchReply_IPv6EchoReply(t *testing.T) {
	p := NewICMPProber(false)
	want := p.nextEcho()

	// Checksums need a pseudo header for ICMPv6; parsing ignores them.
	reply := marshal(t, icmp.Message{Type: ipv6.ICMPTypeEchoReply, Body: want})
	assert.Equal(t, replyEcho, matchReply(58, reply, want, false))
}

func TestQuotesEcho_Truncated(t *testing.T) {
	want := NewICMPProber(true).nextEcho()
	full := quotedIPv4(t, want)

	assert.True(t, quotesEcho(full, want, false, true))
	assert.False(t, quotesEcho(full[:len(full)-1], want, false, true))
	assert.False(t, quotesEcho(nil, want, false, true))
	assert.False(t, quotesEcho(full, want, true, true), "IPv6 header is longer than the quoted data")
}

func TestSamePeer(t *testing.T) {
	ip := net.ParseIP("8.8.8.8")
	assert.True(t, samePeer(&net.IPAddr{IP: ip}, ip))
	assert.True(t, samePeer(&net.UDPAddr{IP: ip}, ip))
	assert.False(t, samePeer(&net.IPAddr{IP: net.ParseIP("1.1.1.1")}, ip))
}

func TestNetwork(t *testing.T) {
	tests := []struct {
		privileged, v6 bool
		network        string
	}{
		{true, false, "ip4:icmp"},
		{true, true, "ip6:ipv6-icmp"},
		{false, false, "udp4"},
		{false, true, "udp6"},
	}
	for _, tt := range tests {
		network, _ := NewICMPProber(tt.privileged).network(tt.v6)
		assert.Equal(t, tt.network, network)
	}
}

func TestICMPProber_InvalidTimeout(t *testing.T) {
	o := NewICMPProber(false).Probe(context.Background(), "127.0.0.1", 0)
	assert.Equal(t, KindError, o.Kind)

	var pe *ProbeError
	require.ErrorAs(t, o.Err, &pe)
	assert.Equal(t, ProbeFailInvalidTimeout, pe.Reason)
}

func TestICMPProber_Loopback(t *testing.T) {
	p, method, err := openICMP()
	if err != nil {
		t.Skipf("no ICMP socket available: %v", err)
	}

	o := p.Probe(context.Background(), "127.0.0.1", 2*time.Second)
	assert.Equal(t, KindLatency, o.Kind, "method %s: %v", method, o.Err)
	assert.Less(t, o.RTT, 2000.0)
}

func TestICMPProber_CancelReturnsPromptly(t *testing.T) {
	p, _, err := openICMP()
	if err != nil {
		t.Skipf("no ICMP socket available: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	o := p.Probe(ctx, "192.0.2.1", 5*time.Second)
	assert.Less(t, time.Since(start), time.Second)
	assert.NotEqual(t, KindLatency, o.Kind)
}

// packetConnStub is a socket that never answers and counts what it sends.
type packetConnStub struct {
	net.PacketConn
	writes     atomic.Int32
	onDeadline func()
	closeOnce  sync.Once
	closed     chan struct{}
}

func newPacketConnStub() *packetConnStub {
	return &packetConnStub{closed: make(chan struct{})}
}

func (c *packetConnStub) SetDeadline(time.Time) error {
	if c.onDeadline != nil {
		c.onDeadline()
	}
	return nil
}

func (c *packetConnStub) WriteTo(b []byte, _ net.Addr) (int, error) {
	c.writes.Add(1)
	return len(b), nil
}

func (c *packetConnStub) ReadFrom([]byte) (int, net.Addr, error) {
	<-c.closed
	return 0, nil, net.ErrClosed
}

func (c *packetConnStub) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func TestICMPEcho_NoSendAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stub := newPacketConnStub()
	stub.onDeadline = cancel
	p := NewICMPProber(false)
	p.listen = func(string, string) (net.PacketConn, error) { return stub, nil }

	o := p.Probe(ctx, "192.0.2.1", time.Second)
	assert.Equal(t, KindError, o.Kind)
	assert.Zero(t, stub.writes.Load(), "echo sent after the caller gave up")
}

func TestICMPEcho_SilentHostTimesOut(t *testing.T) {
	stub := newPacketConnStub()
	p := NewICMPProber(false)
	p.listen = func(string, string) (net.PacketConn, error) { return stub, nil }

	o := p.Probe(context.Background(), "198.51.100.1", 30*time.Millisecond)
	require.Equal(t, KindError, o.Kind)
	var pe *ProbeError
	require.ErrorAs(t, o.Err, &pe)
	assert.Equal(t, ProbeFailTimeout, pe.Reason)
	assert.Equal(t, int32(1), stub.writes.Load())
}
