// Package capture supplies frame sources for cmd/fastfwd. The NIC driver and
// any true XDP/eBPF hook are explicitly out of scope (spec.md §1's
// Non-goals): this package's only job is to get raw Ethernet frames into
// pipeline.Router.ProcessFrame on an ordinary Linux host, as a runnable
// stand-in for that hook, using golang.org/x/sys/unix the same way the rest
// of the corpus reaches for x/sys rather than hand-rolled syscall numbers.
package capture

import "context"

// Frame is one captured Ethernet frame together with the ifindex it arrived
// on, the same (data, ingressIfindex) pair pipeline.Router.ProcessFrame
// expects.
type Frame struct {
	Data           []byte
	IngressIfindex uint32
}

// Source reads raw frames from some underlying transport until ctx is
// cancelled or an unrecoverable error occurs.
type Source interface {
	// Next blocks until a frame is available, ctx is done, or an error
	// occurs.
	Next(ctx context.Context) (Frame, error)
	Close() error
}
