// Backing byte region shared by both heap allocator variants
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import "unsafe"

// region is the backing byte array shared by both allocator variants: a
// contiguous slab obtained once from the host, partitioned by the
// allocator itself thereafter. frontier separates the structured prefix
// (containing blocks) from the still-virgin tail, which is never
// formatted or scanned.
type region struct {
	buf      []byte
	arena    unsafe.Pointer
	frontier uint32
	capacity uint32
}

func newRegion(buf []byte) region {
	r := region{
		buf:      buf,
		capacity: uint32(len(buf)),
	}
	if len(buf) > 0 {
		r.arena = unsafe.Pointer(&buf[0])
	}
	return r
}

// bootstrap formats the single placeholder header required by §4.1 and
// positions the frontier just past it. The word's value is never read
// meaningfully afterwards: every neighbor-coalescing check skips the
// first structured block specifically to avoid depending on it (see
// Free in direct.go), it exists only to reserve 4 bytes so that the first real
// block's header lands on an offset congruent to 4 mod 8, making its
// payload (header+4) congruent to 0 mod 8.
func (r *region) bootstrap() {
	r.setWord(0, r.capacity)
	r.frontier = headerSize
}

// word reads the 32-bit tag word at the given region offset.
func (r *region) word(off uint32) uint32 {
	return *(*uint32)(unsafe.Add(r.arena, uintptr(off)))
}

// setWord writes the 32-bit tag word at the given region offset.
func (r *region) setWord(off uint32, v uint32) {
	*(*uint32)(unsafe.Add(r.arena, uintptr(off))) = v
}

// bytesAt returns a slice view of n bytes starting at the given offset,
// for payload copy operations.
func (r *region) bytesAt(off, n uint32) []byte {
	return r.buf[off : off+n]
}
