package pipeline_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/namehash"
	"github.com/ndnfastpath/router/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFrame wraps an NDN TLV payload in a minimal Ethernet II header using
// ethertype 0x8624 (NDN-direct), per spec.md §4.8.1 step 3.
func buildFrame(payload []byte) []byte {
	frame := make([]byte, 14+len(payload))
	// dst/src MAC are irrelevant to the fast path; ethertype is all that
	// matters.
	binary.BigEndian.PutUint16(frame[12:14], 0x8624)
	copy(frame[14:], payload)
	return frame
}

func scenario1Interest() []byte {
	return []byte{
		0x05, 0x0B, 0x07, 0x09, 0x08, 0x03, 0x66, 0x6F, 0x6F,
		0x08, 0x02, 0x62, 0x61, 0x0A, 0x01, 0x01,
	}
}

func unsolicitedData() []byte {
	return []byte{
		0x06, 0x0D, 0x07, 0x09, 0x08, 0x03, 0x66, 0x6F, 0x6F,
		0x08, 0x02, 0x62, 0x61, 0x15, 0x00,
	}
}

func matchingData() []byte {
	return []byte{
		0x06, 0x11, 0x07, 0x09, 0x08, 0x03, 0x66, 0x6F, 0x6F,
		0x08, 0x02, 0x62, 0x61, 0x15, 0x04, 0xDE, 0xAD, 0xBE, 0xEF,
	}
}

func newTestRouter(t *testing.T) *pipeline.Router {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.UserspaceFallbackThreshold = 0 // deterministic: never escalate
	r := pipeline.NewRouterWithConfig(cfg)
	pipeline.ResetClock()
	t.Cleanup(pipeline.ResetClock)
	return r
}

func TestScenario1_CSMissNoFIBNoDuplicate(t *testing.T) {
	r := newTestRouter(t)
	frame := buildFrame(scenario1Interest())

	verdict, _ := r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictPass, verdict)

	snap := r.Counters.Snapshot()
	assert.Equal(t, uint64(1), snap[metrics.InterestsRecv])
	assert.Equal(t, uint64(1), snap[metrics.CacheMisses])
	assert.Equal(t, 1, r.PIT.Len())
}

func TestScenario2_CSHit(t *testing.T) {
	r := newTestRouter(t)
	frame := buildFrame(scenario1Interest())

	// Deliver once to take the miss, then satisfy with Data so the CS gets
	// a real entry under the pipeline's own hash of this name (which
	// removes the PIT entry), then redeliver the same Interest and expect
	// a hit that leaves the PIT untouched (spec.md §4.8.2: a CS hit returns
	// before the PIT block runs at all).
	verdict, _ := r.ProcessFrame(frame, 3)
	require.Equal(t, pipeline.VerdictPass, verdict)

	dataFrame := buildFrame(matchingData())
	verdict, _ = r.ProcessFrame(dataFrame, 3)
	require.Equal(t, pipeline.VerdictPass, verdict)
	require.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.CacheInserts])
	require.Equal(t, 0, r.PIT.Len())

	verdict, _ = r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictPass, verdict)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.CacheHits])
	assert.Equal(t, 0, r.PIT.Len(), "a CS hit must not touch the PIT")
}

func TestScenario3_DuplicateDrop(t *testing.T) {
	r := newTestRouter(t)
	frame := buildFrame(scenario1Interest())

	t0 := int64(0)
	pipeline.SetClock(func() int64 { return t0 }, func() int64 { return 0 })
	v1, _ := r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictPass, v1)

	t1 := t0 + int64(100*time.Millisecond)
	pipeline.SetClock(func() int64 { return t1 }, func() int64 { return 0 })
	v2, _ := r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictDrop, v2)

	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.Drops])
	assert.Equal(t, 1, r.PIT.Len(), "refreshed, not duplicated")
}

func scenario1NameHash(cfg *core.Config) uint64 {
	payload := scenario1Interest()
	// Name TLV's Value is payload[4:13]: the concatenated NameComponent
	// TLVs for "/foo/ba" (payload[0:2] is the Interest TL, payload[2:4] the
	// Name TL).
	return namehash.HashWith(cfg.HashAlgorithm, payload, 4, 13)
}

func TestScenario4_FIBRedirect(t *testing.T) {
	r := newTestRouter(t)
	cfg := core.DefaultConfig()
	cfg.UserspaceFallbackThreshold = 0
	hash := scenario1NameHash(cfg)

	r.FIB.Upsert(hash, 7)

	frame := buildFrame(scenario1Interest())
	v, egress := r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictRedirect, v)
	assert.Equal(t, uint32(7), egress)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.Redirects])
}

func TestScenario5_UnsolicitedData(t *testing.T) {
	r := newTestRouter(t)
	frame := buildFrame(unsolicitedData())

	v, _ := r.ProcessFrame(frame, 3)
	assert.Equal(t, pipeline.VerdictDrop, v)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.Drops])
}

func TestScenario6_DataSatisfiesInterestAndIsCached(t *testing.T) {
	r := newTestRouter(t)
	interestFrame := buildFrame(scenario1Interest())
	dataFrame := buildFrame(matchingData())

	v, _ := r.ProcessFrame(interestFrame, 3)
	require.Equal(t, pipeline.VerdictPass, v)
	require.Equal(t, 1, r.PIT.Len())

	v, _ = r.ProcessFrame(dataFrame, 3)
	assert.Equal(t, pipeline.VerdictPass, v)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.CacheInserts])
	assert.Equal(t, 0, r.PIT.Len(), "PIT entry removed")

	v, _ = r.ProcessFrame(interestFrame, 3)
	assert.Equal(t, pipeline.VerdictPass, v)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.CacheHits])
}

func TestInvariant_UnrecognisedEthertypePassesWithoutTouchingCounters(t *testing.T) {
	r := newTestRouter(t)
	frame := make([]byte, 30)
	binary.BigEndian.PutUint16(frame[12:14], 0x9999)

	v, _ := r.ProcessFrame(frame, 0)
	assert.Equal(t, pipeline.VerdictPass, v)
	snap := r.Counters.Snapshot()
	for _, count := range snap {
		assert.Equal(t, uint64(0), count)
	}
}

func TestInvariant_FIBEqualToIngressNeverRedirects(t *testing.T) {
	r := newTestRouter(t)
	frame := buildFrame(scenario1Interest())

	pipeline.SetClock(func() int64 { return 0 }, func() int64 { return 0 })
	_, _ = r.ProcessFrame(frame, 3)
	entries := r.PIT.Inspect()
	require.Len(t, entries, 1)
	hash := entries[0].NameHash

	r.FIB.Upsert(hash, 3) // same as ingress ifindex

	pipeline.SetClock(func() int64 { return int64(2 * time.Second) }, func() int64 { return 0 })
	frame2 := buildFrame(scenario1Interest())
	v, _ := r.ProcessFrame(frame2, 3)
	assert.NotEqual(t, pipeline.VerdictRedirect, v)
}

func TestMalformedPacketIsAbsorbedNotFatal(t *testing.T) {
	r := newTestRouter(t)
	// Interest TLV claiming a length far beyond the actual buffer.
	payload := []byte{0x05, 0xFD, 0xFF, 0xFF}
	frame := buildFrame(payload)

	v, _ := r.ProcessFrame(frame, 0)
	assert.Equal(t, pipeline.VerdictPass, v)
	assert.Equal(t, uint64(1), r.Counters.Snapshot()[metrics.Errors])
}
