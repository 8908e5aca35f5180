// Indirected (handle-based) heap allocator variant
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import "sort"

// VMalloc places a new block at the frontier (live blocks in VHeap form a
// single contiguous run from base, so every allocation is a bump
// allocation) and records its payload address in a redirection-table
// slot, returning the slot as a Handle. It returns (invalidHandle, false)
// on out-of-memory or when the redirection table is exhausted.
func (v *VHeap) VMalloc(n uint32) (h Handle, ok bool) {
	size := align8(n)

	if size > v.capacity {
		v.onMallocFailure()
		return invalidHandle, false
	}

	slot, isNewSlot, found := v.findSlot()
	if !found {
		v.onMallocFailure()
		return invalidHandle, false
	}

	header := v.frontier
	newFrontier := header + size + tagSize
	if newFrontier > v.capacity {
		v.onMallocFailure()
		return invalidHandle, false
	}

	v.writeTags(header, size, true)
	v.frontier = newFrontier

	v.table[slot] = payloadOffset(header)
	if isNewSlot {
		v.tableEnd++
	}

	v.onMallocSuccess(int64(size), int64(size)+tagSize)

	return Handle(slot), true
}

// findSlot returns the first reusable (NULL) slot in [0, tableEnd), or
// the next virgin slot at tableEnd if the table has room to grow.
func (v *VHeap) findSlot() (slot int, isNew bool, found bool) {
	for i := 0; i < v.tableEnd; i++ {
		if v.table[i] == nullSlot {
			return i, false, true
		}
	}
	if v.tableEnd < len(v.table) {
		return v.tableEnd, true, true
	}
	return 0, false, false
}

// VFree releases the block named by h, shifting every live block that
// sits after it down by the freed block's footprint and rewriting the
// redirection-table slots for every block that moved, keeping the live
// region contiguous from base (§4.5).
func (v *VHeap) VFree(h Handle) {
	payload, ok := v.slotAddr(h)
	if !ok {
		v.onFreeFailure()
		return
	}

	header := headerOffset(payload)
	size := v.blockSize(header)
	shift := size + tagSize

	// Blocks must be relocated in ascending address order: each one's
	// destination is the region its lower-addressed neighbor just
	// vacated, so processing out of order would let a higher-slot,
	// lower-address block stomp on a not-yet-moved neighbor's data.
	movers := make([]int, 0, v.tableEnd)
	for i := 0; i < v.tableEnd; i++ {
		if addr := v.table[i]; addr != nullSlot && addr > payload {
			movers = append(movers, i)
		}
	}
	sort.Slice(movers, func(a, b int) bool { return v.table[movers[a]] < v.table[movers[b]] })

	for _, i := range movers {
		addr := v.table[i]
		oldHeader := headerOffset(addr)
		blockSize := v.blockSize(oldHeader)
		span := blockSize + tagSize
		newHeader := oldHeader - shift

		copy(v.bytesAt(newHeader, span), v.bytesAt(oldHeader, span))
		v.table[i] = addr - shift
	}

	v.frontier -= shift
	v.table[h] = nullSlot
	v.trimTableEnd()

	v.onFreeSuccess(int64(size), int64(size)+tagSize)
}

// trimTableEnd shrinks tableEnd past any run of trailing NULL slots,
// per §4.5's monotonic-unless-trailing policy.
func (v *VHeap) trimTableEnd() {
	for v.tableEnd > 0 && v.table[v.tableEnd-1] == nullSlot {
		v.tableEnd--
	}
}
