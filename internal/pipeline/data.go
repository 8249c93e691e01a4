package pipeline

import (
	"bytes"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/namehash"
)

// handleData implements spec.md §4.8.3 end to end.
func (r *Router) handleData(data []byte, start, end int, ingressIfindex uint32, cfg *core.Config) (Verdict, uint32) {
	name, nameEnd, err := findName(data, start, end)
	if err != nil {
		r.Counters.Incr(metrics.Errors, cpuID())
		return VerdictPass, 0
	}
	hash := namehash.HashWith(cfg.HashAlgorithm, data, name.start, name.end)
	r.Counters.Incr(metrics.DataRecv, cpuID())

	nowNS := defaultClock.NowNS()

	if !cfg.PITEnabled {
		return VerdictPass, 0
	}

	pending, ok := r.PIT.Take(hash, nowNS)
	if !ok {
		r.Counters.Incr(metrics.Drops, cpuID())
		r.Events.Submit(metrics.Event{
			TimestampNS:      nowNS,
			Type:             metrics.EventUnsolicitedData,
			NameHash:         hash,
			PacketSize:       len(data),
			ActionTaken:      VerdictDrop.String(),
			ProcessingTimeNS: defaultClock.NowNS() - nowNS,
		})
		return VerdictDrop, 0
	}

	if cfg.CSEnabled {
		if content, contentType, found := findContent(data, nameEnd, end); found {
			contentLen := content.end - content.start
			if contentLen <= cfg.CSMaxSizeBytes {
				// Copy out of the caller's frame buffer: spec.md §3 says
				// packet buffers are borrowed for the duration of one
				// pipeline call and must not be retained past it, but the
				// whole point of the content store is to outlive this call.
				stored := bytes.Clone(data[content.start:content.end])
				r.CS.Insert(hash, stored, contentType, 0,
					cfg.DefaultTTLSec, defaultClock.NowSec())
				r.Counters.Incr(metrics.CacheInserts, cpuID())
				r.Events.Submit(metrics.Event{
					TimestampNS:      nowNS,
					Type:             metrics.EventContentCached,
					NameHash:         hash,
					PacketSize:       len(data),
					ActionTaken:      "CACHED",
					ProcessingTimeNS: defaultClock.NowNS() - nowNS,
				})
			}
		}
	}

	if pending.IngressIfindex != ingressIfindex {
		r.Counters.Incr(metrics.Redirects, cpuID())
		return VerdictRedirect, pending.IngressIfindex
	}

	return VerdictPass, 0
}
