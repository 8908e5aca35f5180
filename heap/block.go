// Boundary-tag encoding for heap blocks
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import "github.com/heaplab/heapmanager/internal/bits"

// Boundary-tag word layout: size occupies the upper bits, the allocated
// flag occupies bit 0. size is always a multiple of 8, so bits 1-2 are
// always zero and need no masking of their own.
const allocBit = 0

// packTag encodes a header or footer word.
func packTag(size uint32, allocated bool) uint32 {
	word := size
	bits.SetTo(&word, allocBit, allocated)
	return word
}

// tagSizeOf recovers the size field of a tag word.
func tagSizeOf(word uint32) uint32 {
	return word &^ uint32(alignment-1)
}

// tagAllocated recovers the allocated flag of a tag word.
func tagAllocated(word uint32) bool {
	return bits.Get(&word, allocBit)
}

// footerOffset returns the offset of a block's footer word given its
// header offset and payload size.
func footerOffset(header, size uint32) uint32 {
	return header + headerSize + size
}

// payloadOffset returns a block's payload address given its header
// offset.
func payloadOffset(header uint32) uint32 {
	return header + headerSize
}

// headerOffset returns a block's header offset given its payload address.
func headerOffset(payload uint32) uint32 {
	return payload - headerSize
}

// blockSize reads the size encoded in the block's header.
func (r *region) blockSize(header uint32) uint32 {
	return tagSizeOf(r.word(header))
}

// blockAllocated reads the allocated flag encoded in the block's header.
func (r *region) blockAllocated(header uint32) bool {
	return tagAllocated(r.word(header))
}

// writeTags stamps matching header and footer words for a block of the
// given size starting at header, preserving invariant 1 of §8 (header
// word equals footer word bit-for-bit).
func (r *region) writeTags(header, size uint32, allocated bool) {
	tag := packTag(size, allocated)
	r.setWord(header, tag)
	r.setWord(footerOffset(header, size), tag)
}
