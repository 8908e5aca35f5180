// heapbench: boundary-tag heap allocator benchmark driver
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// The heapbench command drives the heap package's scenario library
// against an mmap-backed region and reports the resulting counters.
//
// Usage:
//
//	heapbench [-http addr] [-table n] [size]
//
// size is the backing region size in bytes (default 2^20). With -http, heapbench also
// serves a live chart of the allocator's diagnostic counters (see
// github.com/mkevac/debugcharts) at http://addr/debug/charts/.
package main

import (
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/mkevac/debugcharts"

	"github.com/heaplab/heapmanager/heap"
)

func main() {
	log.SetFlags(0)

	httpAddr := flag.String("http", "", "serve live diagnostic charts on this address (e.g. localhost:8080)")
	tableCap := flag.Uint("table", heap.DefaultTableCapacity, "redirection table capacity for the indirected run")
	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("heapbench: usage: heapbench [-http addr] [-table n] [size]")
	}

	size := uint32(heap.DefaultSize)
	if flag.NArg() == 1 {
		n, err := strconv.ParseUint(flag.Arg(0), 10, 32)
		if err != nil {
			log.Fatalf("heapbench: invalid size %q: %v", flag.Arg(0), err)
		}
		size = uint32(n)
	}

	buf, release, err := acquireRegion(int(size))
	if err != nil {
		log.Fatalf("heapbench: %v", err)
	}
	defer release()

	h := heap.NewFromBuffer(buf)

	if *httpAddr != "" {
		expvar.Publish("heap", expvar.Func(func() interface{} { return h.Stats() }))
		go func() {
			log.Printf("heapbench: serving charts on http://%s/debug/charts/", *httpAddr)
			log.Println(http.ListenAndServe(*httpAddr, nil))
		}()
	}

	runAll(h, uint32(*tableCap))
}

func runAll(h *heap.Heap, tableCap uint32) {
	if err := heap.RunFirstFit(h); err != nil {
		fmt.Fprintf(os.Stderr, "heapbench: first-fit scenario: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("first-fit scenario: ok")

	start := time.Now()
	report := heap.RunStability(h, 100000)
	fmt.Printf("stability scenario: %d/%d iterations ok, %d mismatches (%s)\n",
		report.Iterations-report.Mismatches, report.Iterations, report.Mismatches, time.Since(start))

	maxSize := heap.RunMaxAllocationSize(h, int(h.Capacity()))
	fmt.Printf("largest single allocation: %d bytes\n", maxSize)

	v, err := heap.NewV(heap.Config{Size: h.Capacity(), TableCapacity: tableCap})
	if err != nil {
		fmt.Fprintf(os.Stderr, "heapbench: %v\n", err)
		os.Exit(1)
	}
	count := heap.RunMaxAllocations(v, 'x')
	fmt.Printf("max indirected allocations of 1 byte: %d\n", count)

	stats := h.Stats()
	fmt.Printf("direct heap: malloc=%d free=%d failed=%d allocated=%d free_blocks=%d\n",
		stats.MallocRequests, stats.FreeRequests, stats.FailedRequests,
		stats.AllocatedBlocks, stats.FreeBlocks)
}
