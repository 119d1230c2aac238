/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/named-data/ndncs/core"
	"github.com/named-data/ndncs/fw"
	"github.com/named-data/ndncs/metrics/prom"
	"github.com/named-data/ndncs/mgmt"
	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/table"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Version of csbench.
var Version string

// BuildTime contains the timestamp of when the version of csbench was built.
var BuildTime string

type workload struct {
	objects         []*ndn.Data
	zipfS           float64
	freshnessPeriod time.Duration

	nSatisfied   uint64
	nUnsatisfied uint64
	nPublished   uint64
}

func main() {
	// Provide metadata to other threads.
	core.Version = Version
	core.BuildTime = BuildTime
	core.StartTimestamp = time.Now()

	// Parse command line options
	var shouldPrintVersion bool
	flag.BoolVar(&shouldPrintVersion, "version", false, "Print version and exit")
	flag.BoolVar(&shouldPrintVersion, "V", false, "Print version and exit (short)")
	var configFileName string
	flag.StringVar(&configFileName, "config", "", "Configuration file (TOML)")
	var numThreads int
	flag.IntVar(&numThreads, "threads", 0, "Number of forwarding threads (overrides fw.threads)")
	var duration time.Duration
	flag.DurationVar(&duration, "duration", 10*time.Second, "How long to run the workload")
	var nObjects, nConsumers, nProducers int
	flag.IntVar(&nObjects, "objects", 10000, "Number of distinct objects")
	flag.IntVar(&nConsumers, "consumers", 4, "Number of concurrent consumers")
	flag.IntVar(&nProducers, "producers", 1, "Number of concurrent producers")
	w := new(workload)
	flag.Float64Var(&w.zipfS, "zipf", 1.1, "Zipf exponent of object popularity (must be > 1)")
	flag.DurationVar(&w.freshnessPeriod, "freshness", time.Second, "FreshnessPeriod of published Data (0 for none)")
	var profiles profilerConfig
	flag.StringVar(&profiles.CpuProfile, "cpu-profile", "", "Write CPU profile to file")
	flag.StringVar(&profiles.MemProfile, "mem-profile", "", "Write memory profile to file")
	flag.StringVar(&profiles.BlockProfile, "block-profile", "", "Write block profile to file")
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.Parse()

	if shouldPrintVersion {
		fmt.Println("csbench: Content Store workload driver")
		fmt.Println("Version " + core.Version + " (Built " + core.BuildTime + ")")
		fmt.Println("Released under the terms of the MIT License")
		return
	}

	if configFileName != "" {
		core.LoadConfig(configFileName)
	}
	core.InitializeLogger()
	fw.Configure()
	table.Configure()
	if numThreads != 0 {
		fw.NumFwThreads = numThreads
		core.NumForwardingThreads = numThreads
	}

	if fw.NumFwThreads < 1 || fw.NumFwThreads > fw.MaxFwThreads {
		fmt.Println("Number of forwarding threads must be in range [1,", fw.MaxFwThreads, "]")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}
	if nObjects < 1 || nConsumers < 1 || nProducers < 1 || w.zipfS <= 1 {
		fmt.Println("objects, consumers and producers must be positive and zipf must be greater than 1")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	core.LogInfo("Main", "Starting csbench with ", fw.NumFwThreads, " forwarding threads")

	profiler := newProfiler(profiles)
	profiler.Start()

	var extraMetrics []table.CsMetrics
	if metricsAddr != "" {
		extraMetrics = append(extraMetrics, prom.New(nil, "ndncs", "cs", nil))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				core.LogError("Main", "Metrics server stopped: ", err)
			}
		}()
		core.LogInfo("Main", "Serving metrics on ", metricsAddr)
	}

	// Create forwarding threads
	fw.Threads = make(map[int]*fw.Thread)
	for i := 0; i < fw.NumFwThreads; i++ {
		newThread := fw.NewThread(i, extraMetrics...)
		fw.Threads[i] = newThread
		go fw.Threads[i].Run()
	}

	w.objects = makeObjects(nObjects, w.freshnessPeriod)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < nConsumers; i++ {
		seed := int64(i)
		group.Go(func() error { return w.consume(ctx, seed) })
	}
	for i := 0; i < nProducers; i++ {
		seed := int64(nConsumers + i)
		group.Go(func() error { return w.produce(ctx, seed) })
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		core.LogError("Main", "Workload failed: ", err)
	}

	profiler.Stop()

	info := new(mgmt.ContentStoreModule).HandleCommand("info", nil).Info
	core.LogInfo("Main", "Satisfied=", atomic.LoadUint64(&w.nSatisfied),
		", Unsatisfied=", atomic.LoadUint64(&w.nUnsatisfied),
		", Published=", atomic.LoadUint64(&w.nPublished))
	core.LogInfo("Main", "CS entries=", info.NCsEntries, ", hits=", info.NHits, ", misses=", info.NMisses)

	// Tell all forwarding threads to quit
	for _, fw := range fw.Threads {
		fw.TellToQuit()
	}

	// Wait for all forwarding threads to have quit
	for _, fw := range fw.Threads {
		<-fw.HasQuit
	}
}

func makeObjects(n int, freshnessPeriod time.Duration) []*ndn.Data {
	objects := make([]*ndn.Data, n)
	for i := range objects {
		objects[i] = ndn.NewData([]byte("object-" + strconv.Itoa(i)))
		if freshnessPeriod > 0 {
			fp := freshnessPeriod
			objects[i].SetFreshnessPeriod(&fp)
		}
	}
	return objects
}

func (w *workload) pick(zipf *rand.Zipf) *ndn.Data {
	return w.objects[zipf.Uint64()]
}

func (w *workload) newZipf(seed int64) *rand.Zipf {
	return rand.NewZipf(rand.New(rand.NewSource(seed)), w.zipfS, 1, uint64(len(w.objects)-1))
}

// consume expresses Interests for popular objects, one at a time, until ctx is done.
func (w *workload) consume(ctx context.Context, seed int64) error {
	zipf := w.newZipf(seed)
	replies := make(chan *ndn.Data, 1)
	for {
		data := w.pick(zipf)
		thread := fw.Threads[fw.HashContentToFwThread(data.Hash())]
		thread.QueueInterest(&fw.PendingInterest{
			Interest: ndn.NewInterest(data.Hash()),
			Reply: func(data *ndn.Data) {
				select {
				case replies <- data:
				default:
				}
			},
		})

		select {
		case reply := <-replies:
			if reply == nil {
				atomic.AddUint64(&w.nUnsatisfied, 1)
			} else {
				atomic.AddUint64(&w.nSatisfied, 1)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// produce publishes objects following the same popularity as consumers.
func (w *workload) produce(ctx context.Context, seed int64) error {
	zipf := w.newZipf(seed)
	ticker := time.NewTicker(100 * time.Microsecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			data := w.pick(zipf)
			fw.Threads[fw.HashContentToFwThread(data.Hash())].QueueData(data)
			atomic.AddUint64(&w.nPublished, 1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
