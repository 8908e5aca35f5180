// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import (
	"testing"

	"pgregory.net/rapid"
)

// checkDirectInvariants walks every block in [headerSize, frontier) and
// asserts §8 invariants 1-3 and 5.
func checkDirectInvariants(t *rapid.T, h *Heap) {
	var prevFree bool
	for p := uint32(headerSize); p < h.Frontier(); {
		header := h.word(p)
		size := tagSizeOf(header)
		footer := h.word(footerOffset(p, size))
		if header != footer {
			t.Fatalf("block at %d: header %#x != footer %#x", p, header, footer)
		}
		if size%alignment != 0 {
			t.Fatalf("block at %d: size %d not a multiple of 8", p, size)
		}

		allocated := tagAllocated(header)
		if !allocated {
			if prevFree {
				t.Fatalf("block at %d: adjacent free blocks", p)
			}
			if payloadOffset(p)%alignment != 0 {
				t.Fatalf("free block at %d: payload not 8-aligned", p)
			}
		} else if payloadOffset(p)%alignment != 0 {
			t.Fatalf("allocated block at %d: payload not 8-aligned", p)
		}
		prevFree = !allocated

		p += size + tagSize
	}

	stats := h.Stats()
	if stats.PaddedBytesAllocated+stats.AlignedBytesFree != int64(h.Capacity()) {
		t.Fatalf("padded (%d) + alignedFree (%d) != capacity (%d)",
			stats.PaddedBytesAllocated, stats.AlignedBytesFree, h.Capacity())
	}
}

// TestDirectInvariantsUnderRandomOps drives random Malloc/Free
// interleavings and checks that every boundary-tag invariant holds
// after every operation.
func TestDirectInvariantsUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewFromBuffer(make([]byte, 4096))
		var live []uint32

		ops := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 200).Draw(t, "ops")
		sizeGen := rapid.IntRange(0, 256)

		for _, op := range ops {
			if op == 0 || len(live) == 0 {
				n := sizeGen.Draw(t, "size")
				if addr, ok := h.Malloc(uint32(n)); ok {
					live = append(live, addr)
				}
			} else {
				idx := rapid.IntRange(0, len(live)-1).Draw(t, "idx")
				h.Free(live[idx])
				live = append(live[:idx], live[idx+1:]...)
			}
			checkDirectInvariants(t, h)
		}
	})
}

// checkIndirectInvariants asserts §8 invariant 4 and 6: the live region
// is a contiguous prefix from base, and every non-NULL slot points at a
// matching, allocated block.
func checkIndirectInvariants(t *rapid.T, v *VHeap) {
	p := uint32(headerSize)
	for p < v.Frontier() {
		header := v.word(p)
		size := tagSizeOf(header)
		if !tagAllocated(header) {
			t.Fatalf("indirected region has a free block at %d", p)
		}
		p += size + tagSize
	}
	if p != v.Frontier() {
		t.Fatalf("live region does not end exactly at frontier: %d != %d", p, v.Frontier())
	}

	for i := 0; i < v.TableEnd(); i++ {
		addr := v.table[i]
		if addr == nullSlot {
			continue
		}
		header := headerOffset(addr)
		if !v.blockAllocated(header) {
			t.Fatalf("slot %d points at a non-allocated block", i)
		}
	}
}

func TestIndirectInvariantsUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v, err := NewV(Config{Size: 4096, TableCapacity: 64})
		if err != nil {
			t.Fatal(err)
		}
		var live []Handle

		ops := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 200).Draw(t, "ops")
		sizeGen := rapid.IntRange(0, 256)

		for _, op := range ops {
			if op == 0 || len(live) == 0 {
				n := sizeGen.Draw(t, "size")
				if h, ok := v.VMalloc(uint32(n)); ok {
					live = append(live, h)
				}
			} else {
				idx := rapid.IntRange(0, len(live)-1).Draw(t, "idx")
				v.VFree(live[idx])
				live = append(live[:idx], live[idx+1:]...)
			}
			checkIndirectInvariants(t, v)
		}
	})
}

// TestCoalesceCompleteness frees every outstanding allocation, in a
// random order, and checks that the region ends up as either a single
// free block spanning [base, frontier) or fully retracted to base+4.
func TestCoalesceCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewFromBuffer(make([]byte, 4096))

		n := rapid.IntRange(1, 20).Draw(t, "n")
		var live []uint32
		for i := 0; i < n; i++ {
			size := rapid.IntRange(0, 128).Draw(t, "size")
			if addr, ok := h.Malloc(uint32(size)); ok {
				live = append(live, addr)
			}
		}

		order := rapid.Permutation(live).Draw(t, "order")
		for _, addr := range order {
			h.Free(addr)
		}

		if h.Frontier() != headerSize {
			// Walk the single remaining block and confirm it's free
			// and spans to the frontier.
			header := uint32(headerSize)
			if h.blockAllocated(header) {
				t.Fatalf("expected the sole remaining block to be free")
			}
			size := h.blockSize(header)
			if footerOffset(header, size)+headerSize != h.Frontier() {
				t.Fatalf("sole free block does not span to the frontier")
			}
		}
	})
}
