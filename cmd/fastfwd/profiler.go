package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/ndnfastpath/router/internal/core"
)

// profiler mirrors the teacher daemon's fw/cmd/profiler.go: optional CPU,
// memory, and blocking-operation profiling controlled by the same three
// config fields and CLI flags.
type profiler struct {
	config  *core.Config
	cpuFile *os.File
	block   *pprof.Profile
}

func newProfiler(config *core.Config) *profiler {
	return &profiler{config: config}
}

func (p *profiler) String() string { return "profiler" }

func (p *profiler) Start() {
	if p.config.Core.CPUProfile != "" {
		var err error
		p.cpuFile, err = os.Create(p.config.Core.CPUProfile)
		if err != nil {
			core.Log.Fatal(p, "Unable to open output file for CPU profile", "err", err)
		}
		core.Log.Info(p, "Profiling CPU", "out", p.config.Core.CPUProfile)
		pprof.StartCPUProfile(p.cpuFile)
	}

	if p.config.Core.BlockProfile != "" {
		core.Log.Info(p, "Profiling blocking operations", "out", p.config.Core.BlockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}
}

func (p *profiler) Stop() {
	if p.block != nil {
		f, err := os.Create(p.config.Core.BlockProfile)
		if err != nil {
			core.Log.Fatal(p, "Unable to open output file for block profile", "err", err)
		}
		if err := p.block.WriteTo(f, 0); err != nil {
			core.Log.Fatal(p, "Unable to write block profile", "err", err)
		}
		f.Close()
	}

	if p.config.Core.MemProfile != "" {
		f, err := os.Create(p.config.Core.MemProfile)
		if err != nil {
			core.Log.Fatal(p, "Unable to open output file for memory profile", "err", err)
		}
		defer f.Close()

		core.Log.Info(p, "Profiling memory", "out", p.config.Core.MemProfile)
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			core.Log.Fatal(p, "Unable to write memory profile", "err", err)
		}
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
	}
}
