package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ndnfastpath/router/internal/core"
)

var config = core.DefaultConfig()
var iface string

// cmdFastFwd is the daemon's root command, mirroring fw/cmd/cmd.go's
// CmdYaNFD: one config file argument, profiling flags, run to completion
// until a signal arrives.
var cmdFastFwd = &cobra.Command{
	Use:   "fastfwd CONFIG-FILE",
	Short: "NDN fast-path forwarding daemon",
	Args:  cobra.ExactArgs(1),
	RunE:  runFastFwd,
}

func init() {
	cmdFastFwd.Flags().StringVar(&config.Core.CPUProfile, "cpu-profile", "", "Write CPU profile to file")
	cmdFastFwd.Flags().StringVar(&config.Core.MemProfile, "mem-profile", "", "Write memory profile to file")
	cmdFastFwd.Flags().StringVar(&config.Core.BlockProfile, "block-profile", "", "Write block profile to file")
	cmdFastFwd.Flags().StringVar(&iface, "iface", "lo", "Network interface to capture frames from")
}

func runFastFwd(cmd *cobra.Command, args []string) error {
	configFile := args[0]
	config.Core.BaseDir = filepath.Dir(configFile)

	if err := core.ReadYaml(config, configFile); err != nil {
		return fmt.Errorf("fastfwd: %w", err)
	}

	level, err := core.ParseLevel(config.Core.LogLevel)
	if err != nil {
		return fmt.Errorf("fastfwd: %w", err)
	}
	core.SetLevel(level)

	prof := newProfiler(config)
	prof.Start()
	defer prof.Stop()

	d := newDaemon(config)
	if err := d.Start(iface); err != nil {
		return fmt.Errorf("fastfwd: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	core.Log.Info(d, "Received signal - exit", "signal", sig)

	d.Stop()
	return nil
}
