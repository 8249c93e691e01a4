package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var csIncludeContent bool

var cmdCS = &cobra.Command{
	Use:   "cs",
	Short: "Inspect the Content Store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTool(rootBaseURL)

		var entries []struct {
			NameHash      uint64 `json:"NameHash"`
			InsertionTime int64  `json:"InsertionTime"`
			ExpiryTime    int64  `json:"ExpiryTime"`
			ContentSize   int    `json:"ContentSize"`
		}
		path := "/cs"
		if csIncludeContent {
			path += "?include_content=true"
		}
		if err := t.getJSON(path, &entries); err != nil {
			fatalf("Error fetching content store: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("name_hash=%d size=%d expires=%d\n", e.NameHash, e.ContentSize, e.ExpiryTime)
		}
	},
}

var cmdPIT = &cobra.Command{
	Use:   "pit",
	Short: "Inspect the Pending Interest Table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTool(rootBaseURL)

		var entries []struct {
			NameHash       uint64 `json:"NameHash"`
			IngressIfindex uint32 `json:"IngressIfindex"`
			Nonce          uint32 `json:"Nonce"`
			ExpirationTime int64  `json:"ExpirationTime"`
		}
		if err := t.getJSON("/pit", &entries); err != nil {
			fatalf("Error fetching PIT: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("name_hash=%d ingress=%d expires_ns=%d\n", e.NameHash, e.IngressIfindex, e.ExpirationTime)
		}
	},
}

func init() {
	cmdCS.Flags().BoolVar(&csIncludeContent, "include-content", false, "Include cached payload bytes in the listing")
}
