// First-fit boundary-tag heap allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package heap implements a first-fit block allocator over a single
// fixed-size byte region obtained once at initialization.
//
// Two allocator variants share the boundary-tag block format defined in
// this package: Heap returns raw, stable payload addresses; VHeap returns
// opaque handles indirected through a redirection table, letting it keep
// the live region perpetually contiguous via compaction on free.
//
// Neither variant is safe for concurrent use: both keep all state in
// plain fields with no locking, matching a single-threaded, synchronous
// caller.
package heap

import "fmt"

// alignment is the fixed payload alignment; not user-configurable.
const alignment = 8

// headerSize is the width, in bytes, of a block's header and footer word.
const headerSize = 4

// tagSize is the combined header+footer overhead of every block.
const tagSize = 2 * headerSize

// minSplitRemainder is the smallest leftover, in bytes, that is worth
// carving into its own free block when an interior fit overshoots a
// request (8 bytes of payload plus its own two tag words).
const minSplitRemainder = alignment + tagSize

// DefaultSize is the default backing region size, 2^20 bytes.
const DefaultSize = 1 << 20

// DefaultTableCapacity is the default redirection table capacity for VHeap,
// 2^20 slots.
const DefaultTableCapacity = 1 << 20

// Config configures a Heap or VHeap.
type Config struct {
	// Size is the backing region size in bytes.
	Size uint32
	// TableCapacity bounds the redirection table (VHeap only).
	TableCapacity uint32
}

// DefaultConfig returns the default configuration (§3: N=2^20, R=2^20).
func DefaultConfig() Config {
	return Config{
		Size:          DefaultSize,
		TableCapacity: DefaultTableCapacity,
	}
}

func (c Config) validate() error {
	if c.Size < 16 {
		return fmt.Errorf("heap: size %d below minimum of 16 bytes", c.Size)
	}
	return nil
}

func (c Config) validateTable() error {
	if c.TableCapacity < 1 {
		return fmt.Errorf("heap: table capacity %d below minimum of 1", c.TableCapacity)
	}
	return nil
}

// align8 rounds n up to the next multiple of 8.
func align8(n uint32) uint32 {
	return (n + alignment - 1) &^ (alignment - 1)
}
