//go:build !linux

package capture

import (
	"context"
	"errors"
)

// AFPacketSource is unavailable outside Linux; raw AF_PACKET sockets are a
// Linux-specific facility. On other platforms NewAFPacketSource always
// returns an error, so cmd/fastfwd's Start fails there.
type AFPacketSource struct{}

func NewAFPacketSource(ifaceName string, maxFrameLen int) (*AFPacketSource, error) {
	return nil, errors.New("capture: AF_PACKET is only supported on linux")
}

func (s *AFPacketSource) Next(ctx context.Context) (Frame, error) {
	return Frame{}, errors.New("capture: AF_PACKET is only supported on linux")
}

func (s *AFPacketSource) Close() error { return nil }
