// Redirection table and Handle type for the indirected heap allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import "fmt"

// Handle is an opaque identifier returned by VHeap in place of a raw
// address. It resolves to a payload address through the redirection
// table and stays valid across compactions triggered by other VFree
// calls (the table entry it names is rewritten in place).
//
// The spec describes handles as slot addresses; this implementation uses
// slot indices instead (§9 notes the two are equivalent), which avoids
// exposing unsafe pointers in the exported API.
type Handle int

// invalidHandle is returned on failure; it is never a valid slot index.
const invalidHandle Handle = -1

// nullSlot marks a reusable redirection-table slot. Payload addresses are
// always >= headerSize+headerSize (the first block's payload sits at
// offset 2*headerSize), so zero is never a live payload address.
const nullSlot uint32 = 0

// VHeap is the handle-indirected allocator variant: live blocks are kept
// in a single contiguous run from the base of the region, with no
// interior free blocks, at the cost of O(n) compaction work per VFree.
type VHeap struct {
	region
	counters

	table    []uint32
	tableEnd int
}

// NewV creates a VHeap over a freshly acquired backing region of
// cfg.Size bytes, with a redirection table of cfg.TableCapacity slots.
func NewV(cfg Config) (*VHeap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateTable(); err != nil {
		return nil, err
	}
	v := &VHeap{
		region: newRegion(make([]byte, cfg.Size)),
		table:  make([]uint32, cfg.TableCapacity),
	}
	v.bootstrap()
	return v, nil
}

func (v *VHeap) slotAddr(h Handle) (uint32, bool) {
	if h < 0 || int(h) >= v.tableEnd {
		return 0, false
	}
	addr := v.table[h]
	if addr == nullSlot {
		return 0, false
	}
	return addr, true
}

func (v *VHeap) String() string {
	return fmt.Sprintf("VHeap{frontier=%d capacity=%d tableEnd=%d}", v.frontier, v.capacity, v.tableEnd)
}
