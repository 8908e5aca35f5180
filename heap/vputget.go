// Allocate-and-copy / copy-and-free conveniences for the indirected allocator
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

// VPut allocates len(src) bytes via VMalloc and copies src into the new
// block, returning its handle.
func (v *VHeap) VPut(src []byte) (h Handle, ok bool) {
	h, ok = v.VMalloc(uint32(len(src)))
	if !ok {
		return invalidHandle, false
	}
	payload, _ := v.slotAddr(h)
	copy(v.bytesAt(payload, uint32(len(src))), src)
	return h, true
}

// VGet copies n bytes from the block named by h into dst, then frees h.
// n must not exceed the block's size; violating this is undefined
// behavior by contract (§4.4, §4.5).
func (v *VHeap) VGet(dst []byte, h Handle, n uint32) {
	payload, ok := v.slotAddr(h)
	if !ok {
		v.onFreeFailure()
		return
	}
	size := v.blockSize(headerOffset(payload))
	if n > size {
		n = size
	}
	copy(dst, v.bytesAt(payload, n))
	v.VFree(h)
}
