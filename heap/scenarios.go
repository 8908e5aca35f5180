// Reusable end-to-end scenario library for the heap allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import (
	"fmt"
)

// StabilityReport summarizes a RunStability run.
type StabilityReport struct {
	Iterations int
	Mismatches int
}

// RunStability repeats Put/Get round trips, writing a small
// counter-stamped string into the heap and reading it back each
// iteration, as in scenario 4 of the spec's end-to-end scenarios. It
// stops early on the first allocation failure.
func RunStability(h *Heap, iterations int) StabilityReport {
	report := StabilityReport{}
	buf := make([]byte, 0, 80)

	for i := 0; i < iterations; i++ {
		src := []byte(fmt.Sprintf("String 1, the current count is %d\n", i))

		addr, ok := h.Put(src)
		if !ok {
			break
		}

		buf = buf[:len(src)]
		h.Get(buf, addr, uint32(len(src)))

		report.Iterations++
		if string(buf) != string(src) {
			report.Mismatches++
		}
	}

	return report
}

// RunFirstFit drives the exact four-round first-fit/coalesce sequence
// from the spec's scenario 1, returning an error naming the first
// violated expectation (nil on success). It assumes an empty Heap.
func RunFirstFit(h *Heap) error {
	v1, ok := h.Malloc(8)
	if !ok {
		return fmt.Errorf("malloc v1 failed")
	}
	v2, ok := h.Malloc(4)
	if !ok {
		return fmt.Errorf("malloc v2 failed")
	}
	if v1 >= v2 {
		return fmt.Errorf("round 1: v1 (%d) should precede v2 (%d)", v1, v2)
	}

	h.Free(v1)
	v3, ok := h.Malloc(64)
	if !ok {
		return fmt.Errorf("malloc v3 failed")
	}
	v4, ok := h.Malloc(5)
	if !ok {
		return fmt.Errorf("malloc v4 failed")
	}
	if v4 != v1 {
		return fmt.Errorf("round 2: v4 (%d) should reuse v1's slot (%d)", v4, v1)
	}
	if v3 < v2 {
		return fmt.Errorf("round 2: v3 (%d) should have bumped past v2 (%d)", v3, v2)
	}

	h.Free(v4)
	h.Free(v2)
	v4, ok = h.Malloc(10)
	if !ok {
		return fmt.Errorf("malloc v4 (round 3) failed")
	}
	if v4 != v1 {
		return fmt.Errorf("round 3: v4 (%d) should reuse the merged block at v1 (%d)", v4, v1)
	}

	h.Free(v4)
	h.Free(v3)
	v4, ok = h.Malloc(256)
	if !ok {
		return fmt.Errorf("malloc v4 (round 4) failed")
	}
	if v4 != v1 {
		return fmt.Errorf("round 4: v4 (%d) should reuse the fully merged block at v1 (%d)", v4, v1)
	}
	h.Free(v4)

	return nil
}

// RunMaxAllocations repeatedly VPuts a single payload byte until the
// indirected allocator is exhausted (scenario 5), then frees every
// handle it acquired, returning the number of successful allocations.
func RunMaxAllocations(v *VHeap, payload byte) int {
	var handles []Handle
	src := []byte{payload}

	for {
		h, ok := v.VPut(src)
		if !ok {
			break
		}
		handles = append(handles, h)
	}

	for _, h := range handles {
		v.VFree(h)
	}

	return len(handles)
}

// RunMaxAllocationSize recursively probes halving sizes starting at
// start, allocating and freeing each probed size, and returns the
// largest size that succeeded (scenario 6). It assumes an empty Heap.
func RunMaxAllocationSize(h *Heap, start int) int {
	if start <= 0 {
		return 0
	}

	addr, ok := h.Malloc(uint32(start))
	if ok {
		h.Free(addr)
		return start
	}

	return RunMaxAllocationSize(h, start>>1)
}
