package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var cmdFIB = &cobra.Command{
	Use:   "fib",
	Short: "Inspect and modify the Forwarding Information Base",
}

var fibAddCmd = &cobra.Command{
	Use:   "add NAME-HASH IFINDEX",
	Short: "Add or replace a FIB route",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runFIBUpsert(args[0], args[1])
	},
}

var fibRemoveCmd = &cobra.Command{
	Use:   "remove NAME-HASH",
	Short: "Remove a FIB route",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFIBUpsert(args[0], "0")
	},
}

var fibListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all FIB routes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTool(rootBaseURL)

		var entries []struct {
			NameHash uint64 `json:"NameHash"`
			Ifindex  uint32 `json:"Ifindex"`
		}
		if err := t.getJSON("/fib", &entries); err != nil {
			fatalf("Error fetching FIB: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("name_hash=%d ifindex=%d\n", e.NameHash, e.Ifindex)
		}
	},
}

func init() {
	cmdFIB.AddCommand(fibAddCmd, fibRemoveCmd, fibListCmd)
}

func runFIBUpsert(nameHashStr, ifindexStr string) {
	nameHash, err := strconv.ParseUint(nameHashStr, 10, 64)
	if err != nil {
		fatalf("Invalid name hash: %s", nameHashStr)
	}
	ifindex, err := strconv.ParseUint(ifindexStr, 10, 32)
	if err != nil {
		fatalf("Invalid ifindex: %s", ifindexStr)
	}

	t := newTool(rootBaseURL)
	form := url.Values{
		"name_hash": {strconv.FormatUint(nameHash, 10)},
		"ifindex":   {strconv.FormatUint(ifindex, 10)},
	}
	resp, err := t.client.PostForm(t.baseURL+"/fib", form)
	if err != nil {
		fatalf("Error reaching daemon: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		fatalf("Daemon returned status %d", resp.StatusCode)
	}
	fmt.Println("OK")
}

func (t *tool) getJSON(path string, v any) error {
	resp, err := t.client.Get(t.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
