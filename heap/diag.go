// Diagnostic counters for the heap allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

// Stats is a point-in-time snapshot of an allocator's diagnostic
// counters (§6). Callers read it between operations, never during one.
type Stats struct {
	AllocatedBlocks      int64
	FreeBlocks           int64
	RawBytesAllocated    int64
	PaddedBytesAllocated int64
	RawBytesFree         int64
	AlignedBytesFree     int64
	MallocRequests       int64
	FreeRequests         int64
	FailedRequests       int64
}

// counters is embedded by both allocator variants; it is written only by
// the allocator and read only through Stats snapshots.
type counters struct {
	allocatedBlocks      int64
	freeBlocks           int64
	rawTotalAllocated    int64
	paddedTotalAllocated int64
	mallocRequests       int64
	freeRequests         int64
	failedRequests       int64
}

func (c *counters) onMallocSuccess(raw, padded int64) {
	c.mallocRequests++
	c.allocatedBlocks++
	c.rawTotalAllocated += raw
	c.paddedTotalAllocated += padded
}

func (c *counters) onMallocFailure() {
	c.mallocRequests++
	c.failedRequests++
}

func (c *counters) onFreeSuccess(raw, padded int64) {
	c.freeRequests++
	c.allocatedBlocks--
	c.rawTotalAllocated -= raw
	c.paddedTotalAllocated -= padded
}

func (c *counters) onFreeFailure() {
	c.freeRequests++
	c.failedRequests++
}

func (c *counters) snapshot(capacity uint32) Stats {
	return Stats{
		AllocatedBlocks:      c.allocatedBlocks,
		FreeBlocks:           c.freeBlocks,
		RawBytesAllocated:    c.rawTotalAllocated,
		PaddedBytesAllocated: c.paddedTotalAllocated,
		RawBytesFree:         int64(capacity) - c.rawTotalAllocated,
		AlignedBytesFree:     int64(capacity) - c.paddedTotalAllocated,
		MallocRequests:       c.mallocRequests,
		FreeRequests:         c.freeRequests,
		FailedRequests:       c.failedRequests,
	}
}
