package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndnfastpath/router/internal/capture"
	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/pipeline"
)

var benchDuration time.Duration
var benchPackets int

// cmdBench runs an in-process throughput benchmark against a fresh
// pipeline.Router, independent of any running daemon: it replays a small
// synthetic Interest workload through ProcessFrame in a tight loop and
// reports pps, mbps, average/p99 processing time, and cache hit ratio —
// the same kind of standalone load-generation tools/pingclient.go does
// against a live NDN engine, adapted here to drive the fast path directly
// instead of over the network.
var cmdBench = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the forwarding pipeline in-process",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		router := pipeline.NewRouterWithConfig(core.DefaultConfig())
		src := capture.NewReplaySource(syntheticInterestFrames(benchPackets), true)
		defer src.Close()

		ctx, cancel := context.WithTimeout(context.Background(), benchDuration)
		defer cancel()

		var processed int64
		var totalBytes int64
		// Per-call processing time, timed directly around ProcessFrame rather
		// than read back from the event ring: most frames on the fast path
		// never submit an event at all (a cache miss with no PIT match emits
		// nothing), so the ring alone can't give a representative average or
		// p99 over every packet processed, only over the subset spec.md §4.8
		// defines as event-worthy.
		procTimesNS := make([]int64, 0, benchPackets*4)

		start := time.Now()
		for {
			frame, err := src.Next(ctx)
			if err != nil {
				break
			}
			callStart := time.Now()
			router.ProcessFrame(frame.Data, 1)
			procTimesNS = append(procTimesNS, time.Since(callStart).Nanoseconds())
			processed++
			totalBytes += int64(len(frame.Data))
		}
		elapsed := time.Since(start)

		pps := float64(processed) / elapsed.Seconds()
		mbps := float64(totalBytes*8) / elapsed.Seconds() / 1e6
		avgNS, p99NS := latencyStats(procTimesNS)
		hitRatio := metrics.HitRatio(router.Counters.Snapshot())

		fmt.Printf("processed=%d elapsed=%s pps=%.0f mbps=%.2f avg_proc=%s p99_proc=%s cache_hit_ratio=%.4f\n",
			processed, elapsed, pps, mbps,
			time.Duration(avgNS), time.Duration(p99NS), hitRatio)
	},
}

func init() {
	cmdBench.Flags().DurationVar(&benchDuration, "duration", 2*time.Second, "How long to run the benchmark")
	cmdBench.Flags().IntVar(&benchPackets, "distinct-names", 64, "Number of distinct synthetic names to cycle through")
}

// latencyStats returns the mean and 99th-percentile of samples, in
// nanoseconds. samples is sorted in place; the benchmark run has no further
// use for it once stats are computed.
func latencyStats(samples []int64) (avgNS, p99NS int64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum int64
	for _, v := range samples {
		sum += v
	}
	avgNS = sum / int64(len(samples))

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	idx := (len(samples) * 99) / 100
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	p99NS = samples[idx]
	return avgNS, p99NS
}

// syntheticInterestFrames builds n minimal Interest frames over distinct
// single-component names ("/bench-0", "/bench-1", ...), each wrapped in the
// same 14-byte Ethernet header with ethertype 0x8624 the pipeline's demux
// expects for direct NDN frames.
func syntheticInterestFrames(n int) []capture.Frame {
	frames := make([]capture.Frame, 0, n)
	for i := 0; i < n; i++ {
		comp := []byte(fmt.Sprintf("bench-%d", i))
		name := append([]byte{0x08, byte(len(comp))}, comp...)
		nameTLV := append([]byte{0x07, byte(len(name))}, name...)
		nonce := []byte{0x0A, 0x04, byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)}
		value := append(nameTLV, nonce...)
		interest := append([]byte{0x05, byte(len(value))}, value...)

		frame := make([]byte, 14+len(interest))
		binary.BigEndian.PutUint16(frame[12:14], 0x8624)
		copy(frame[14:], interest)

		frames = append(frames, capture.Frame{Data: frame, IngressIfindex: 1})
	}
	return frames
}
