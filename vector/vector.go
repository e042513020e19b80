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

// Package vector implements a contiguous, growable
// sequence of values with explicit element lifetimes.
//
// A Vector separates its buffer (see internal/rawmem)
// from the elements that live in it: slots [0, Size())
// hold live elements, slots [Size(), Capacity()) are raw
// and hold the zero value. Element types can take part
// in that lifecycle by implementing Initializer, Copier,
// Mover, FallibleMover, MoveOnly and Destroyer.
//
// Operations that reallocate provide the strong guarantee:
// when they return an error the Vector is unchanged.
// In-place insertion and erasure provide the basic
// guarantee: the Vector stays valid but elements may
// have been moved.
//
// Positions are ints in [Begin(), End()]. A position,
// a pointer returned by At or EmplaceBack, and the slice
// returned by Values are invalidated by any operation
// that changes the capacity, and by insertion or erasure
// at or before them.
//
// A Vector is not safe for concurrent mutation.
package vector

import (
	"fmt"

	"github.com/SnellerInc/vector/internal/rawmem"
	"github.com/SnellerInc/vector/ints"
)

// Vector is a contiguous sequence of T.
// The zero Vector is empty and ready to use.
// A Vector must not be copied by assignment;
// use Clone, CopyFrom or MoveFrom.
type Vector[T any] struct {
	data rawmem.Storage[T]
	size int
}

// New returns a Vector of n value-initialised elements
// with capacity exactly n.
func New[T any](n int) (*Vector[T], error) {
	if n < 0 {
		panic("vector.New: negative size")
	}
	data, err := rawmem.New[T](n)
	if err != nil {
		return nil, fmt.Errorf("vector.New: %w", err)
	}
	buf := data.Slots(0, n)
	for i := range buf {
		if err := initSlot(&buf[i]); err != nil {
			destroyAll(buf[:i])
			data.Release()
			return nil, err
		}
	}
	return &Vector[T]{data: data, size: n}, nil
}

// Size returns the number of live elements.
func (v *Vector[T]) Size() int { return v.size }

// Capacity returns the number of slots in the buffer.
func (v *Vector[T]) Capacity() int { return v.data.Capacity() }

// Begin returns the position of the first element.
func (v *Vector[T]) Begin() int { return 0 }

// End returns the position one past the last element.
func (v *Vector[T]) End() int { return v.size }

// At returns element i. It panics unless 0 <= i < Size().
func (v *Vector[T]) At(i int) *T {
	if uint(i) >= uint(v.size) {
		panic(fmt.Sprintf("vector.At: index %d out of range [0:%d]", i, v.size))
	}
	return v.data.Slot(i)
}

// Values returns the live elements as a slice
// that aliases the buffer of v.
func (v *Vector[T]) Values() []T {
	return v.data.Slots(0, v.size)
}

func (v *Vector[T]) live() []T { return v.data.Slots(0, v.size) }

// grown returns the capacity used when a mutator
// finds the buffer full.
func (v *Vector[T]) grown() int {
	return ints.Grow(v.data.Capacity(), maxInt)
}

const maxInt = int(^uint(0) >> 1)

// Swap exchanges the contents of v and o.
func (v *Vector[T]) Swap(o *Vector[T]) {
	v.data.Swap(&o.data)
	v.size, o.size = o.size, v.size
}

// Destroy destroys every live element and releases
// the buffer, leaving v empty with no capacity.
func (v *Vector[T]) Destroy() {
	destroyAll(v.live())
	v.size = 0
	v.data.Release()
}

// Clone returns a copy of v with capacity v.Size().
// Elements are copied even when their type moves
// during relocation; cloning a MoveOnly type fails
// with ErrNotCopyable.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	data, err := rawmem.New[T](v.size)
	if err != nil {
		return nil, fmt.Errorf("vector.Clone: %w", err)
	}
	dst := data.Slots(0, v.size)
	src := v.live()
	for i := range src {
		if err := constructCopy(&dst[i], &src[i]); err != nil {
			destroyAll(dst[:i])
			data.Release()
			return nil, err
		}
	}
	return &Vector[T]{data: data, size: v.size}, nil
}

// CopyFrom replaces the contents of v with a copy of src.
//
// When src fits in the capacity of v, the overlapping
// prefix is copy-assigned, missing elements are copy
// constructed and surplus elements are destroyed; no
// allocation happens and a failure leaves v valid with
// some elements already overwritten. Otherwise v is
// replaced by a clone of src and a failure leaves v unchanged.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}
	if src.size > v.data.Capacity() {
		c, err := src.Clone()
		if err != nil {
			return err
		}
		v.Swap(c)
		c.Destroy()
		return nil
	}
	from := src.live()
	common := ints.Min(v.size, src.size)
	dst := v.data.Slots(0, src.size)
	for i := 0; i < common; i++ {
		if err := copyElem(&dst[i], &from[i]); err != nil {
			return err
		}
	}
	if v.size < src.size {
		for i := v.size; i < src.size; i++ {
			if err := constructCopy(&dst[i], &from[i]); err != nil {
				destroyAll(dst[v.size:i])
				return err
			}
		}
	} else {
		destroyAll(v.data.Slots(src.size, v.size))
	}
	v.size = src.size
	return nil
}

// MoveFrom moves the contents of src into v by
// exchanging them. Afterwards src is empty and holds
// the former buffer of v, which it owns.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.Swap(src)
	destroyAll(src.live())
	src.size = 0
}

// Reserve ensures the capacity of v is at least n.
// If v has to reallocate and an element transfer fails,
// v is unchanged.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.data.Capacity() {
		return nil
	}
	fresh, err := rawmem.New[T](n)
	if err != nil {
		return fmt.Errorf("vector.Reserve: %w", err)
	}
	if err := transferToRaw(fresh.Slots(0, v.size), v.live()); err != nil {
		fresh.Release()
		return err
	}
	v.replace(&fresh)
	return nil
}

// replace installs fresh, whose prefix [0, v.size)
// has been constructed, as the buffer of v and
// disposes of the old one.
func (v *Vector[T]) replace(fresh *rawmem.Storage[T]) {
	v.data.Swap(fresh)
	destroyAll(fresh.Slots(0, v.size))
	fresh.Release()
}

// Resize changes the number of elements to n.
// Shrinking destroys the tail. Growing reserves
// capacity n if needed and value-initialises the new
// elements; if one fails, the elements initialised by
// this call are destroyed and Size() is unchanged.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		panic("vector.Resize: negative size")
	}
	if n <= v.size {
		destroyAll(v.data.Slots(n, v.size))
		v.size = n
		return nil
	}
	if err := v.Reserve(n); err != nil {
		return err
	}
	tail := v.data.Slots(v.size, n)
	for i := range tail {
		if err := initSlot(&tail[i]); err != nil {
			destroyAll(tail[:i])
			return err
		}
	}
	v.size = n
	return nil
}
