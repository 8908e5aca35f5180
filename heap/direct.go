// Direct (raw-address) heap allocator variant
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

// Heap is the direct allocator variant: it hands out raw, stable payload
// addresses into its backing region and recycles them with first-fit
// placement and boundary-tag coalescing.
type Heap struct {
	region
	counters
}

// New creates a Heap over a freshly acquired backing region of cfg.Size
// bytes. The caller never needs to supply the backing buffer itself: the
// one-shot host allocation is treated as the allocator's own concern here
// (unlike cmd/heapbench, which demonstrates acquiring it externally via
// mmap).
func New(cfg Config) (*Heap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return NewFromBuffer(make([]byte, cfg.Size)), nil
}

// NewFromBuffer creates a Heap over an already-acquired backing buffer,
// taking ownership of it. Used by callers that obtain the region
// themselves (e.g. via mmap) per §1's "out of scope" host allocation.
func NewFromBuffer(buf []byte) *Heap {
	h := &Heap{region: newRegion(buf)}
	h.bootstrap()
	h.freeBlocks = 1
	return h
}

// Malloc places a block of at least n bytes using first-fit placement
// over the structured prefix, falling back to bump allocation at the
// frontier. It returns (0, false) on out-of-memory.
func (h *Heap) Malloc(n uint32) (addr uint32, ok bool) {
	size := align8(n)

	if size > h.capacity {
		h.onMallocFailure()
		return 0, false
	}

	header, old, found := h.findFit(size)
	if !found {
		return h.bump(size)
	}

	return h.placeInFit(header, old, size)
}

// findFit scans the structured prefix left to right for the first free
// block of size >= size, returning its header offset.
func (h *Heap) findFit(size uint32) (header, old uint32, found bool) {
	for p := uint32(headerSize); p < h.frontier; {
		s := h.blockSize(p)
		if !h.blockAllocated(p) && s >= size {
			return p, s, true
		}
		p += s + tagSize
	}
	return 0, 0, false
}

// bump formats a new block at the current frontier, extending the
// structured prefix into virgin tail.
func (h *Heap) bump(size uint32) (addr uint32, ok bool) {
	header := h.frontier
	newFrontier := header + size + tagSize

	if newFrontier > h.capacity {
		h.onMallocFailure()
		return 0, false
	}

	h.writeTags(header, size, true)
	h.frontier = newFrontier
	h.onMallocSuccess(int64(size), int64(size)+tagSize)

	return payloadOffset(header), true
}

// placeInFit allocates from an interior free block of size old >= size,
// splitting off a free remainder when it is large enough to stand on its
// own (§4.2, §9).
func (h *Heap) placeInFit(header, old, size uint32) (addr uint32, ok bool) {
	remainder := old - size

	switch {
	case remainder == 0:
		h.writeTags(header, size, true)
		h.freeBlocks--
		h.onMallocSuccess(int64(size), int64(size)+tagSize)
	case remainder < minSplitRemainder:
		// Not enough room to carve out a standalone free block;
		// the whole interior block is handed to the caller.
		h.writeTags(header, old, true)
		h.freeBlocks--
		h.onMallocSuccess(int64(size), int64(old)+tagSize)
	default:
		h.writeTags(header, size, true)
		freeHeader := header + size + tagSize
		h.writeTags(freeHeader, remainder-tagSize, false)
		h.onMallocSuccess(int64(size), int64(size)+tagSize)
	}

	return payloadOffset(header), true
}

// Free returns the block at addr to the allocator, coalescing with any
// free neighbors and retracting the frontier when the freed block abuts
// virgin tail (§4.3). addr must be a payload address previously returned
// by Malloc/Put and not already freed; violating this is undefined
// behavior by contract.
func (h *Heap) Free(addr uint32) {
	header := headerOffset(addr)
	size := h.blockSize(header)

	h.onFreeSuccess(int64(size), int64(size)+tagSize)
	h.freeBlocks++

	h.writeTags(header, size, false)

	curSize := size
	abutsFrontier := false

	if footer := footerOffset(header, curSize); footer+headerSize == h.frontier {
		abutsFrontier = true
		h.frontier = header
		h.freeBlocks--
	} else if footer+headerSize < h.frontier {
		rightHeader := footer + headerSize
		if !h.blockAllocated(rightHeader) {
			rightSize := h.blockSize(rightHeader)
			curSize = curSize + rightSize + tagSize
			h.writeTags(header, curSize, false)
			h.freeBlocks--
		}
	}

	if header > headerSize {
		leftFooter := header - headerSize
		if !h.blockAllocated(leftFooter) {
			leftSize := h.blockSize(leftFooter)
			leftHeader := header - leftSize - tagSize

			if abutsFrontier {
				h.frontier = leftHeader
			} else {
				curSize = leftSize + curSize + tagSize
				h.writeTags(leftHeader, curSize, false)
			}
			h.freeBlocks--
		}
	}

	if h.frontier == headerSize {
		h.freeBlocks = 1
	}
}
