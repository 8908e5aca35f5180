// Allocate-and-copy / copy-and-free conveniences for the direct allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

// Put allocates len(src) bytes and copies src into the new block,
// returning its payload address. It returns (0, false) on out-of-memory.
func (h *Heap) Put(src []byte) (addr uint32, ok bool) {
	addr, ok = h.Malloc(uint32(len(src)))
	if !ok {
		return 0, false
	}
	copy(h.bytesAt(addr, uint32(len(src))), src)
	return addr, true
}

// Get copies n bytes from the block at addr into dst and frees the
// block. n must not exceed the block's size; violating this is
// undefined behavior by contract (§4.4).
func (h *Heap) Get(dst []byte, addr uint32, n uint32) {
	size := h.blockSize(headerOffset(addr))
	if n > size {
		n = size
	}
	copy(dst, h.bytesAt(addr, n))
	h.Free(addr)
}
