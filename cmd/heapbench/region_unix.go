// heapbench backing region acquisition (UNIX)
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build unix

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// acquireRegion mmaps an anonymous, private region of n bytes to back a
// Heap or VHeap. This stands in for the one-shot host allocation the
// allocator itself is explicitly out of scope for.
func acquireRegion(n int) ([]byte, func(), error) {
	buf, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %d bytes: %w", n, err)
	}
	release := func() {
		_ = unix.Munmap(buf)
	}
	return buf, release, nil
}
