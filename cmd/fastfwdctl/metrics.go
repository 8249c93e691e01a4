package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var cmdMetrics = &cobra.Command{
	Use:   "metrics",
	Short: "Show aggregated forwarding-plane counters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTool(rootBaseURL)

		var snap struct {
			Counters map[string]uint64 `json:"counters"`
			HitRatio float64           `json:"hit_ratio"`
			Dropped  uint64            `json:"events_dropped"`
		}
		if err := t.getJSON("/metrics", &snap); err != nil {
			fatalf("Error fetching metrics: %v", err)
		}

		names := make([]string, 0, len(snap.Counters))
		for k := range snap.Counters {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Printf("%-16s %d\n", k, snap.Counters[k])
		}
		fmt.Printf("%-16s %.4f\n", "hit_ratio", snap.HitRatio)
		fmt.Printf("%-16s %d\n", "events_dropped", snap.Dropped)
	},
}
