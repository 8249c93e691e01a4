//go:build linux

package capture

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// AFPacketSource reads raw Ethernet frames off a single interface via an
// AF_PACKET/SOCK_RAW socket bound to ETH_P_ALL, the conventional userspace
// stand-in for a kernel-bypass NIC driver on an ordinary Linux host.
type AFPacketSource struct {
	fd      int
	ifindex uint32
	buf     []byte
}

// htons converts a 16-bit value from host to network byte order, the one
// piece of byte-order plumbing AF_PACKET's protocol field needs that the x/sys
// bindings leave to the caller.
func htons(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// NewAFPacketSource opens a raw AF_PACKET socket bound to ifaceName, with a
// receive buffer sized for the largest frame the pipeline accepts.
func NewAFPacketSource(ifaceName string, maxFrameLen int) (*AFPacketSource, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(unix.ETH_P_ALL)))
	if err != nil {
		return nil, fmt.Errorf("capture: socket: %w", err)
	}

	addr := unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_ALL),
		Ifindex:  iface.Index,
	}
	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("capture: bind: %w", err)
	}

	return &AFPacketSource{
		fd:      fd,
		ifindex: uint32(iface.Index),
		buf:     make([]byte, maxFrameLen),
	}, nil
}

// Next reads the next frame, blocking until one arrives, ctx is cancelled, or
// the socket errors. Cancellation is checked between reads rather than
// interrupting an in-flight one: a raw socket read has no portable way to be
// woken by context cancellation short of SO_RCVTIMEO, which callers can set
// via SetReadTimeout if they need tighter shutdown latency.
func (s *AFPacketSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	n, _, err := unix.Recvfrom(s.fd, s.buf, 0)
	if err != nil {
		return Frame{}, fmt.Errorf("capture: recvfrom: %w", err)
	}

	data := make([]byte, n)
	copy(data, s.buf[:n])

	return Frame{Data: data, IngressIfindex: s.ifindex}, nil
}

// SetReadTimeout bounds how long Next's underlying read can block, so a
// capture loop can periodically recheck ctx without hanging indefinitely on
// an idle interface.
func (s *AFPacketSource) SetReadTimeout(tv unix.Timeval) error {
	return unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

// Close closes the underlying socket.
func (s *AFPacketSource) Close() error {
	return unix.Close(s.fd)
}
