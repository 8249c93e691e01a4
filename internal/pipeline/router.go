package pipeline

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/namehash"
	"github.com/ndnfastpath/router/internal/table"
)

// Router is the single context that owns the CS, PIT, nonce cache, and FIB,
// plus the metrics sink, and is passed explicitly to every pipeline call —
// spec.md §9's "Global mutable state" note: "Encapsulate them behind a
// single Router context passed explicitly to every pipeline entry."
//
// Its own configuration slot is a separate atomic pointer from the
// process-wide core.Live() one: every Router is sized from a config at
// construction time, and a control plane that wants to change a running
// Router's per-packet behaviour calls SetConfig explicitly, which is the
// same single-slot atomic-swap discipline spec.md §5 describes, scoped to
// this Router instead of the whole process (useful for tests and for
// running more than one Router in-process).
type Router struct {
	CS       *table.ContentStore
	PIT      *table.PIT
	Nonce    *table.NonceCache
	FIB      *table.FIB
	Counters *metrics.Counters
	Events   *metrics.EventRing

	cfg atomic.Pointer[core.Config]
}

func (r *Router) String() string { return "pipeline" }

// NewRouter builds a Router from the process-wide live configuration,
// sizing every table and the event ring from spec.md §5's resource caps.
func NewRouter() *Router {
	return NewRouterWithConfig(core.Live())
}

// NewRouterWithConfig builds a Router from an explicit configuration,
// mainly for tests that want deterministic capacities and per-packet
// behaviour independent of the process-wide live config.
func NewRouterWithConfig(cfg *core.Config) *Router {
	r := &Router{
		CS:       table.NewContentStore(cfg.CSCapacity, cfg.CSMaxSizeBytes),
		PIT:      table.NewPIT(cfg.PITCapacity),
		Nonce:    table.NewNonceCache(cfg.NonceCapacity, time.Duration(cfg.NonceWindowSec)*time.Second),
		FIB:      table.NewFIB(),
		Counters: metrics.NewCounters(),
		Events:   metrics.NewEventRingBytes(cfg.EventRingBytes),
	}
	r.cfg.Store(cfg)
	return r
}

// Config returns this Router's current per-packet configuration.
func (r *Router) Config() *core.Config {
	return r.cfg.Load()
}

// SetConfig atomically swaps this Router's per-packet configuration. Table
// capacities are fixed at construction; only the per-packet fields (hash
// algorithm, enable flags, fallback threshold, TTLs) take effect from the
// next packet onward.
func (r *Router) SetConfig(cfg *core.Config) {
	r.cfg.Store(cfg)
}

// clock abstracts time so tests can inject deterministic timestamps without
// sleeping (spec.md §8's "Round-trip laws" and boundary-case tests need
// this).
type clock interface {
	NowNS() int64
	NowSec() int64
}

type wallClock struct{}

func (wallClock) NowNS() int64  { return time.Now().UnixNano() }
func (wallClock) NowSec() int64 { return time.Now().Unix() }

var defaultClock clock = wallClock{}

// funcClock lets tests inject deterministic timestamps without sleeping.
type funcClock struct {
	ns  func() int64
	sec func() int64
}

func (f funcClock) NowNS() int64  { return f.ns() }
func (f funcClock) NowSec() int64 { return f.sec() }

// SetClock overrides the pipeline's time source, for tests that need exact
// control over arrival times (e.g. spec.md §8's 999ms/1001ms nonce-window
// boundary). Not used outside tests.
func SetClock(nowNS, nowSec func() int64) {
	defaultClock = funcClock{ns: nowNS, sec: nowSec}
}

// ResetClock restores the wall-clock time source.
func ResetClock() {
	defaultClock = wallClock{}
}

// cpuID is a placeholder for the calling worker's CPU index, used only to
// pick a counter slot (spec.md §4.3). It always returns 0, so every counter
// update from the pipeline lands in CPU slot 0.
func cpuID() int { return 0 }

// randPercent returns a uniform value in [0, 100), used for the
// probabilistic userspace-fallback escalation in spec.md §4.8.2.
var randPercent = func() int { return rand.Intn(100) }

// ProcessFrame is the pipeline's single entry point (spec.md §4.8): given
// one raw frame and its ingress ifindex, it returns exactly one verdict
// (invariant I1) plus, for REDIRECT, the chosen egress ifindex.
func (r *Router) ProcessFrame(data []byte, ingressIfindex uint32) (Verdict, uint32) {
	layer := demux(data)
	if layer.pass {
		return VerdictPass, 0
	}

	cfg := r.Config()
	typ, valStart, valEnd, err := readOuterType(data, layer.ndnOffset)
	if err != nil {
		r.Counters.Incr(metrics.Errors, cpuID())
		return VerdictPass, 0
	}

	switch typ {
	case typeInterest:
		return r.handleInterest(data, valStart, valEnd, ingressIfindex, cfg)
	case typeData:
		return r.handleData(data, valStart, valEnd, ingressIfindex, cfg)
	case typeNack:
		r.Counters.Incr(metrics.NacksRecv, cpuID())
		return VerdictPass, 0
	default:
		return VerdictPass, 0
	}
}
