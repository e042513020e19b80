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

package vector

import (
	"fmt"

	"github.com/SnellerInc/vector/internal/rawmem"
)

// EmplaceBack constructs a new last element with ctor,
// which receives a zero slot, and returns a pointer to it.
// If ctor or a relocation fails, v is unchanged.
func (v *Vector[T]) EmplaceBack(ctor func(*T) error) (*T, error) {
	if v.size < v.data.Capacity() {
		p := v.data.Slot(v.size)
		if err := construct(p, ctor); err != nil {
			return nil, err
		}
		v.size++
		return p, nil
	}
	if err := v.reallocInsert(v.size, ctor); err != nil {
		return nil, err
	}
	return v.data.Slot(v.size - 1), nil
}

// PushBack appends a copy of value.
func (v *Vector[T]) PushBack(value T) error {
	_, err := v.EmplaceBack(func(dst *T) error {
		return copyElem(dst, &value)
	})
	return err
}

// PushBackMove appends value by moving from it.
func (v *Vector[T]) PushBackMove(value *T) error {
	_, err := v.EmplaceBack(func(dst *T) error {
		return moveElem(dst, value)
	})
	return err
}

// PopBack destroys the last element.
// It panics if v is empty.
func (v *Vector[T]) PopBack() {
	if v.size == 0 {
		panic("vector.PopBack: empty vector")
	}
	v.size--
	destroy(v.data.Slot(v.size))
}

// Emplace constructs a new element with ctor at
// position pos, shifting the elements at and after
// pos one position to the right, and returns pos.
//
// If v is full, the element is built in a fresh
// buffer and a failure leaves v unchanged. Otherwise
// the element is built in a temporary and moved into
// place; a failure after the shift has started leaves
// v valid with moved elements.
func (v *Vector[T]) Emplace(pos int, ctor func(*T) error) (int, error) {
	if pos < 0 || pos > v.size {
		panic(fmt.Sprintf("vector.Emplace: position %d out of range [0:%d]", pos, v.size))
	}
	if v.size == v.data.Capacity() {
		if err := v.reallocInsert(pos, ctor); err != nil {
			return 0, err
		}
		return pos, nil
	}
	if pos == v.size {
		if err := construct(v.data.Slot(pos), ctor); err != nil {
			return 0, err
		}
		v.size++
		return pos, nil
	}
	// ctor may read elements of v, so
	// build the value before shifting
	var tmp T
	if err := construct(&tmp, ctor); err != nil {
		return 0, err
	}
	err := v.shiftInsert(pos, &tmp)
	destroy(&tmp)
	if err != nil {
		return 0, err
	}
	return pos, nil
}

// Insert inserts a copy of value at pos and returns pos.
func (v *Vector[T]) Insert(pos int, value T) (int, error) {
	return v.Emplace(pos, func(dst *T) error {
		return copyElem(dst, &value)
	})
}

// InsertMove inserts value at pos by moving from it
// and returns pos. value may point into v.
func (v *Vector[T]) InsertMove(pos int, value *T) (int, error) {
	return v.Emplace(pos, func(dst *T) error {
		return moveElem(dst, value)
	})
}

// Erase removes the element at pos, shifting the
// following elements left, and returns pos, which
// now holds the element that followed the erased one
// (or equals End()). It panics unless 0 <= pos < Size().
func (v *Vector[T]) Erase(pos int) (int, error) {
	if pos < 0 || pos >= v.size {
		panic(fmt.Sprintf("vector.Erase: position %d out of range [0:%d]", pos, v.size))
	}
	live := v.live()
	if err := transferToLive(live[pos:], live[pos+1:]); err != nil {
		return 0, err
	}
	v.size--
	destroy(&live[v.size])
	return pos, nil
}

// reallocInsert builds a grown buffer holding the
// live elements with a new element constructed by
// ctor at position k, and installs it.
// On failure v is unchanged.
func (v *Vector[T]) reallocInsert(k int, ctor func(*T) error) error {
	capacity := v.grown()
	fresh, err := rawmem.New[T](capacity)
	if err != nil {
		return fmt.Errorf("vector: grow to %d: %w", capacity, err)
	}
	buf := fresh.Slots(0, capacity)
	// the new element goes first so that
	// ctor sees the old buffer intact
	if err := construct(&buf[k], ctor); err != nil {
		fresh.Release()
		return err
	}
	rel := newRelocation(buf, k)
	old := v.live()
	if err := transferToRaw(buf[:k], old[:k]); err != nil {
		rel.unwind()
		fresh.Release()
		return err
	}
	rel.transferred(0, k)
	if err := transferToRaw(buf[k+1:v.size+1], old[k:]); err != nil {
		rel.unwind()
		fresh.Release()
		return err
	}
	v.replace(&fresh)
	v.size++
	return nil
}

// shiftInsert opens a hole at k < v.size in place and
// moves tmp into it. The buffer must have a raw slot.
func (v *Vector[T]) shiftInsert(k int, tmp *T) error {
	last := v.size
	buf := v.data.Slots(0, last+1)
	if err := constructMove(&buf[last], &buf[last-1]); err != nil {
		return err
	}
	v.size++
	for i := last - 1; i > k; i-- {
		if err := moveElem(&buf[i], &buf[i-1]); err != nil {
			return err
		}
	}
	return moveElem(&buf[k], tmp)
}
