/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/named-data/ndncs/core"
)

// profilerConfig names the output files of each profile. Empty names disable a profile.
type profilerConfig struct {
	CpuProfile   string
	MemProfile   string
	BlockProfile string
}

type profiler struct {
	config  profilerConfig
	cpuFile *os.File
	block   *pprof.Profile
}

func newProfiler(config profilerConfig) *profiler {
	return &profiler{config: config}
}

func (p *profiler) Start() {
	if p.config.CpuProfile != "" {
		var err error
		p.cpuFile, err = os.Create(p.config.CpuProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for CPU profile: ", err)
		}

		core.LogInfo("Main", "Profiling CPU - outputting to ", p.config.CpuProfile)
		if err := pprof.StartCPUProfile(p.cpuFile); err != nil {
			core.LogFatal("Main", "Unable to start CPU profile: ", err)
		}
	}

	if p.config.BlockProfile != "" {
		core.LogInfo("Main", "Profiling blocking operations - outputting to ", p.config.BlockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}
}

// Stop writes the heap and block profiles and ends CPU profiling.
func (p *profiler) Stop() {
	if p.config.MemProfile != "" {
		memProfileFile, err := os.Create(p.config.MemProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for memory profile: ", err)
		}

		core.LogInfo("Main", "Profiling memory - outputting to ", p.config.MemProfile)
		runtime.GC()
		if err := pprof.WriteHeapProfile(memProfileFile); err != nil {
			core.LogFatal("Main", "Unable to write memory profile: ", err)
		}
		memProfileFile.Close()
	}

	if p.block != nil {
		blockProfileFile, err := os.Create(p.config.BlockProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for block profile: ", err)
		}
		if err := p.block.WriteTo(blockProfileFile, 0); err != nil {
			core.LogFatal("Main", "Unable to write block profile: ", err)
		}
		blockProfileFile.Close()
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
	}
}
