// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package rawmem provides typed buffers of uninitialised slots.
//
// A Storage owns its buffer but knows nothing about which
// slots hold live values; that bookkeeping belongs to the
// container built on top of it.
package rawmem

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/SnellerInc/vector/internal/memops"
	"github.com/SnellerInc/vector/ints"
)

// ErrOutOfMemory is returned when a buffer
// cannot be allocated.
var ErrOutOfMemory = errors.New("out of memory")

var (
	// upper bound on the size of a single buffer, in bytes
	memLimit uint64 = math.MaxUint64

	// # buffers returned by New that have
	// not yet been passed to Release
	inuse int64
)

func init() {
	if n := hostMemory(); n > 0 {
		memLimit = n
	}
}

// InUse returns the number of buffers allocated
// by New that have not been released.
func InUse() int {
	return int(atomic.LoadInt64(&inuse))
}

// Storage is a buffer of capacity slots of T.
//
// The zero Storage has no buffer and a capacity of zero.
// A Storage must not be copied once it owns a buffer;
// use Take to transfer ownership.
type Storage[T any] struct {
	buf []T
}

// New allocates storage for exactly n slots.
// New(0) performs no allocation.
// If the buffer cannot be allocated, New returns
// an error wrapping ErrOutOfMemory and no storage.
func New[T any](n int) (Storage[T], error) {
	if n < 0 {
		panic("rawmem.New: negative capacity")
	}
	if n == 0 {
		return Storage[T]{}, nil
	}
	var zero T
	width := unsafe.Sizeof(zero)
	total, ok := ints.MulChecked(uintptr(n), width)
	if !ok || uint64(total) > memLimit {
		return Storage[T]{}, fmt.Errorf("rawmem.New: %d slots of %d bytes: %w", n, width, ErrOutOfMemory)
	}
	atomic.AddInt64(&inuse, 1)
	return Storage[T]{buf: make([]T, n)}, nil
}

// Capacity returns the number of slots in s.
func (s *Storage[T]) Capacity() int { return len(s.buf) }

// Address returns the first slot, or nil
// if s has no buffer.
func (s *Storage[T]) Address() *T {
	if len(s.buf) == 0 {
		return nil
	}
	return &s.buf[0]
}

// Slot returns slot i. It panics unless i < s.Capacity().
func (s *Storage[T]) Slot(i int) *T {
	if uint(i) >= uint(len(s.buf)) {
		panic(fmt.Sprintf("rawmem.Slot: index %d out of range [0:%d]", i, len(s.buf)))
	}
	return &s.buf[i]
}

// Slots returns slots [i, j). The end position j
// may be the capacity itself.
func (s *Storage[T]) Slots(i, j int) []T {
	return s.buf[i:j:j]
}

// Swap exchanges the buffers of s and o.
func (s *Storage[T]) Swap(o *Storage[T]) {
	s.buf, o.buf = o.buf, s.buf
}

// Take returns a Storage owning the buffer
// of s and leaves s empty.
func (s *Storage[T]) Take() Storage[T] {
	out := Storage[T]{buf: s.buf}
	s.buf = nil
	return out
}

// Release frees the buffer of s and leaves s empty.
// Release does not destroy any value held in the slots;
// releasing an empty Storage is a no-op.
func (s *Storage[T]) Release() {
	if s.buf == nil {
		return
	}
	memops.ZeroMemory(s.buf)
	s.buf = nil
	if atomic.AddInt64(&inuse, -1) < 0 {
		panic("rawmem: unbalanced Release")
	}
}
