// Public accessors for allocator diagnostics
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

// Stats returns a snapshot of the direct allocator's diagnostic counters.
func (h *Heap) Stats() Stats {
	return h.counters.snapshot(h.capacity)
}

// Stats returns a snapshot of the indirected allocator's diagnostic
// counters.
func (v *VHeap) Stats() Stats {
	return v.counters.snapshot(v.capacity)
}

// Capacity returns the total size of the backing region.
func (h *Heap) Capacity() uint32 { return h.capacity }

// Capacity returns the total size of the backing region.
func (v *VHeap) Capacity() uint32 { return v.capacity }

// Frontier returns the current frontier offset, mostly useful for tests
// asserting the bump-boundary invariant (§3).
func (h *Heap) Frontier() uint32 { return h.frontier }

// Frontier returns the current frontier offset.
func (v *VHeap) Frontier() uint32 { return v.frontier }

// TableEnd returns one past the highest in-use redirection-table slot
// (trailing NULL slots are trimmed on VFree).
func (v *VHeap) TableEnd() int { return v.tableEnd }
