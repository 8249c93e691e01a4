package pipeline

import (
	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/namehash"
	"github.com/ndnfastpath/router/internal/table"
)

// handleInterest implements spec.md §4.8.2 end to end.
func (r *Router) handleInterest(data []byte, start, end int, ingressIfindex uint32, cfg *core.Config) (Verdict, uint32) {
	name, _, err := findName(data, start, end)
	if err != nil {
		r.Counters.Incr(metrics.Errors, cpuID())
		return VerdictPass, 0
	}
	hash := namehash.HashWith(cfg.HashAlgorithm, data, name.start, name.end)
	r.Counters.Incr(metrics.InterestsRecv, cpuID())

	nowSec := defaultClock.NowSec()
	nowNS := defaultClock.NowNS()

	if cfg.CSEnabled {
		if _, hit := r.CS.Lookup(hash, nowSec); hit {
			r.Counters.Incr(metrics.CacheHits, cpuID())
			r.Events.Submit(metrics.Event{
				TimestampNS:      nowNS,
				Type:             metrics.EventCacheHit,
				NameHash:         hash,
				PacketSize:       len(data),
				ProcessingTimeNS: defaultClock.NowNS() - nowNS,
			})
			// The control plane serves Data for a cache hit; the fast path
			// never synthesises or transmits it directly (spec.md §9's
			// open question on cache-hit-without-TX).
			return VerdictPass, 0
		}
		r.Counters.Incr(metrics.CacheMisses, cpuID())
	}

	if cfg.PITEnabled {
		nonce, ok := findNonce(data, start, end)
		if !ok {
			// Fall back to the pseudo-nonce (low 32 bits of the name hash)
			// only because the real Nonce TLV could not be found — spec.md
			// §4.6's open question, carried forward here as documented
			// fallback rather than the source's default.
			nonce = uint32(hash)
		}

		if r.Nonce.SeenRecentlyAndRefresh(nonce, nowNS) {
			r.Counters.Incr(metrics.Drops, cpuID())
			r.Events.Submit(metrics.Event{
				TimestampNS:      nowNS,
				Type:             metrics.EventDuplicateInterest,
				NameHash:         hash,
				PacketSize:       len(data),
				ActionTaken:      VerdictDrop.String(),
				ProcessingTimeNS: defaultClock.NowNS() - nowNS,
			})
			return VerdictDrop, 0
		}

		r.PIT.InsertOrRefresh(hash, table.PITEntry{
			ArrivalTimeNS:  nowNS,
			LifetimeMS:     cfg.PITLifetimeMS,
			IngressIfindex: ingressIfindex,
			Nonce:          nonce,
		})
	}

	if randPercent() < cfg.UserspaceFallbackThreshold {
		r.Events.Submit(metrics.Event{
			TimestampNS:      nowNS,
			Type:             metrics.EventUserspaceFallback,
			NameHash:         hash,
			PacketSize:       len(data),
			ActionTaken:      VerdictPass.String(),
			ProcessingTimeNS: defaultClock.NowNS() - nowNS,
		})
		return VerdictPass, 0
	}

	if ifindex, ok := r.FIB.Lookup(hash); ok && table.Usable(ifindex, ingressIfindex) {
		r.Counters.Incr(metrics.Redirects, cpuID())
		return VerdictRedirect, ifindex
	}

	return VerdictPass, 0
}
