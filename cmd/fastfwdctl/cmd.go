// Command fastfwdctl is the operator CLI for a running fastfwd daemon: it
// talks to the management HTTP API (internal/mgmt) instead of the NDN
// management protocol tools/nfdc uses, since the fast path has no engine or
// signed control channel of its own — but the command-tree shape (one root
// command, one subcommand per table, positional arguments) follows
// tools/nfdc/nfdc_cmd.go and tools/dvc/dvc.go.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// tool holds the HTTP client state shared by every subcommand, mirroring
// tools/dvc.Tool's engine field.
type tool struct {
	baseURL string
	client  *http.Client
}

func newTool(baseURL string) *tool {
	return &tool{baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Second}}
}

var rootBaseURL string

var cmdFastFwdCtl = &cobra.Command{
	Use:          "fastfwdctl",
	Short:        "Control and inspect a running fastfwd daemon",
	SilenceUsage: true,
}

func init() {
	cmdFastFwdCtl.PersistentFlags().StringVar(&rootBaseURL, "addr", "http://127.0.0.1:9696", "Management HTTP API base URL")
	cmdFastFwdCtl.AddCommand(cmdFIB, cmdCS, cmdPIT, cmdMetrics, cmdEvents, cmdBench)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
