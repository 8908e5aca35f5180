// heapbench backing region acquisition (portable fallback)
// https://github.com/heaplab/heapmanager
//
// Copyright (c) The Heaplab Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !unix

package main

// acquireRegion falls back to a plain heap-allocated Go slice on
// platforms without an mmap syscall exposed through golang.org/x/sys/unix.
func acquireRegion(n int) ([]byte, func(), error) {
	return make([]byte, n), func() {}, nil
}
