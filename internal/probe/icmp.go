package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// echoPadding fills the echo payload out to the conventional 56 bytes.
var echoPadding = []byte(strings.Repeat("ping", 12))

// ICMPProber sends one ICMP echo request per probe.
//
// Privileged probers use raw sockets (ip4:icmp, ip6:ipv6-icmp). Unprivileged
// probers use datagram ICMP sockets (udp4, udp6), which Linux allows for
// groups listed in net.ipv4.ping_group_range and macOS allows for everyone.
// Every call opens and closes its own socket.
type ICMPProber struct {
	Privileged bool

	id  int
	seq atomic.Uint32

	// listen opens the per-probe socket; tests swap it out.
	listen func(network, address string) (net.PacketConn, error)
}

func listenICMP(network, address string) (net.PacketConn, error) {
	c, err := icmp.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewICMPProber creates an ICMP echo prober.
func NewICMPProber(privileged bool) *ICMPProber {
	return &ICMPProber{
		Privileged: privileged,
		id:         os.Getpid() & 0xffff,
		listen:     listenICMP,
	}
}

// Check reports whether an IPv4 socket of the configured kind can be opened.
func (p *ICMPProber) Check() error {
	network, address := p.network(false)
	c, err := icmp.ListenPacket(network, address)
	if err != nil {
		return err
	}
	return c.Close()
}

// Probe sends one echo request to target and waits for the matching reply.
func (p *ICMPProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	if timeout <= 0 {
		return invalidTimeout(target, timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ip, err := resolve(ctx, target)
	if err != nil {
		return outcomeFor(categorizeProbeError(target, err))
	}
	v6 := ip.To4() == nil

	network, address := p.network(v6)
	conn, err := p.listen(network, address)
	if err != nil {
		return outcomeFor(categorizeProbeError(target, err))
	}
	defer conn.Close()

	// Abandon the read as soon as the caller gives up, not just at the deadline.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return failure(ctx, target, err)
	}

	echo := p.nextEcho()
	msg := icmp.Message{Type: echoRequestType(v6), Code: 0, Body: echo}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return Failed(&ProbeError{Target: target, Reason: ProbeFailUnknown, Cause: err})
	}

	dst := p.destination(ip)
	// Nothing goes on the wire once the caller has given up.
	if err := ctx.Err(); err != nil {
		return failure(ctx, target, err)
	}
	start := time.Now()
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return failure(ctx, target, err)
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return failure(ctx, target, err)
		}
		rtt := time.Since(start)

		switch matchReply(protocol(v6), buf[:n], echo, p.Privileged) {
		case replyEcho:
			// Raw sockets see every echo reply on the host.
			if p.Privileged && !samePeer(peer, ip) {
				continue
			}
			return LatencyOf(rtt)
		case replyUnreachable:
			return Failed(&ProbeError{Target: target, Reason: ProbeFailUnreachable})
		}
	}
}

func (p *ICMPProber) network(v6 bool) (network, address string) {
	switch {
	case p.Privileged && v6:
		return "ip6:ipv6-icmp", "::"
	case p.Privileged:
		return "ip4:icmp", "0.0.0.0"
	case v6:
		return "udp6", "::"
	default:
		return "udp4", "0.0.0.0"
	}
}

func (p *ICMPProber) destination(ip net.IP) net.Addr {
	if p.Privileged {
		return &net.IPAddr{IP: ip}
	}
	return &net.UDPAddr{IP: ip}
}

// nextEcho builds an echo body with a fresh sequence number. The payload
// starts with a token derived from the send time so a reply can be told
// apart from replies to earlier probes that reused the sequence number.
func (p *ICMPProber) nextEcho() *icmp.Echo {
	seq := int(p.seq.Add(1) & 0xffff)
	data := make([]byte, 8, 8+len(echoPadding))
	binary.BigEndian.PutUint64(data, uint64(time.Now().UnixNano()))
	data = append(data, echoPadding...)
	return &icmp.Echo{ID: p.id, Seq: seq, Data: data}
}

func echoRequestType(v6 bool) icmp.Type {
	if v6 {
		return ipv6.ICMPTypeEchoRequest
	}
	return ipv4.ICMPTypeEcho
}

func protocol(v6 bool) int {
	if v6 {
		return ipv6.ICMPTypeEchoReply.Protocol()
	}
	return ipv4.ICMPTypeEchoReply.Protocol()
}

type replyKind int

const (
	replyIgnore replyKind = iota
	replyEcho
	replyUnreachable
)

// matchReply decides whether b answers the echo request want. checkID is
// false for datagram sockets, where the kernel rewrites the identifier.
func matchReply(proto int, b []byte, want *icmp.Echo, checkID bool) replyKind {
	m, err := icmp.ParseMessage(proto, b)
	if err != nil {
		return replyIgnore
	}

	switch m.Type {
	case ipv4.ICMPTypeEchoReply, ipv6.ICMPTypeEchoReply:
		got, ok := m.Body.(*icmp.Echo)
		if !ok || got.Seq != want.Seq || (checkID && got.ID != want.ID) {
			return replyIgnore
		}
		if len(got.Data) < 8 || !bytes.Equal(got.Data[:8], want.Data[:8]) {
			return replyIgnore
		}
		return replyEcho

	case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable:
		if body, ok := m.Body.(*icmp.DstUnreach); ok && quotesEcho(body.Data, want, proto != 1, checkID) {
			return replyUnreachable
		}

	case ipv4.ICMPTypeTimeExceeded, ipv6.ICMPTypeTimeExceeded:
		if body, ok := m.Body.(*icmp.TimeExceeded); ok && quotesEcho(body.Data, want, proto != 1, checkID) {
			return replyUnreachable
		}
	}

	return replyIgnore
}

// quotesEcho reports whether an ICMP error's quoted datagram (original IP
// header plus the first 8 bytes of our echo) belongs to want.
func quotesEcho(data []byte, want *icmp.Echo, v6 bool, checkID bool) bool {
	headerLen := ipv6.HeaderLen
	if !v6 {
		if len(data) == 0 {
			return false
		}
		headerLen = int(data[0]&0x0f) * 4
	}
	if len(data) < headerLen+8 {
		return false
	}

	quoted := data[headerLen:]
	id := int(binary.BigEndian.Uint16(quoted[4:6]))
	seq := int(binary.BigEndian.Uint16(quoted[6:8]))
	if seq != want.Seq {
		return false
	}
	return !checkID || id == want.ID
}

func samePeer(peer net.Addr, ip net.IP) bool {
	switch a := peer.(type) {
	case *net.IPAddr:
		return a.IP.Equal(ip)
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	default:
		return true
	}
}
