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
	"errors"

	"github.com/SnellerInc/vector/internal/memops"
)

// ErrNotCopyable is returned when an operation
// needs to copy an element whose type is MoveOnly.
var ErrNotCopyable = errors.New("element type is not copyable")

// Initializer is implemented by element types whose
// value-initialisation does more than produce the zero value.
// Init is called on a zero slot.
type Initializer interface {
	Init() error
}

// Copier is implemented by *T for element types
// with a custom, possibly failing, copy. The receiver
// is either a zero slot (copy construction) or a live
// element (copy assignment), in which case CopyFrom
// must release what the receiver held.
type Copier[T any] interface {
	CopyFrom(src *T) error
}

// Mover is implemented by *T for element types
// whose move cannot fail. The source stays live
// and is destroyed later.
//
// A type without Mover or FallibleMover that is a
// Copier is moved by copying, so its source keeps its
// own resources. A type without a move or copy hook
// that is a Destroyer is moved by destroying the
// receiver, assigning, and resetting the source to the
// zero value; its Destroy must be a no-op on the zero value.
type Mover[T any] interface {
	MoveFrom(src *T)
}

// FallibleMover is implemented by *T for element
// types whose move may fail.
type FallibleMover[T any] interface {
	TryMoveFrom(src *T) error
}

// MoveOnly marks element types that cannot be copied.
type MoveOnly interface {
	MoveOnly()
}

// Destroyer is implemented by element types that
// release resources when they stop being live.
type Destroyer interface {
	Destroy()
}

// Types without any of the hooks above are copied
// and moved by assignment.

func copyable[T any]() bool {
	_, ok := any((*T)(nil)).(MoveOnly)
	return !ok
}

// fallibleMove reports whether moving a T may fail.
// A move that falls back to CopyFrom may.
func fallibleMove[T any]() bool {
	switch any((*T)(nil)).(type) {
	case Mover[T]:
		return false
	case FallibleMover[T], Copier[T]:
		return true
	}
	return false
}

// relocateByMove reports whether bulk transfers of T
// move instead of copy: moves are used when they cannot
// fail or when copying is impossible.
func relocateByMove[T any]() bool {
	return !fallibleMove[T]() || !copyable[T]()
}

func initSlot[T any](dst *T) error {
	if in, ok := any(dst).(Initializer); ok {
		if err := in.Init(); err != nil {
			memops.ZeroSlot(dst)
			return err
		}
	}
	return nil
}

// copyElem copies src into dst, which may be raw or live.
func copyElem[T any](dst, src *T) error {
	if c, ok := any(dst).(Copier[T]); ok {
		return c.CopyFrom(src)
	}
	if !copyable[T]() {
		return ErrNotCopyable
	}
	*dst = *src
	return nil
}

// moveElem moves src into dst, which may be raw or live.
func moveElem[T any](dst, src *T) error {
	switch m := any(dst).(type) {
	case Mover[T]:
		m.MoveFrom(src)
		return nil
	case FallibleMover[T]:
		return m.TryMoveFrom(src)
	case Copier[T]:
		return m.CopyFrom(src)
	case Destroyer:
		m.Destroy()
		*dst = *src
		memops.ZeroSlot(src)
		return nil
	}
	*dst = *src
	return nil
}

func transferElem[T any](dst, src *T) error {
	if relocateByMove[T]() {
		return moveElem(dst, src)
	}
	return copyElem(dst, src)
}

// constructCopy and constructMove build a value
// in the raw slot dst. On failure dst is raw again.
func constructCopy[T any](dst, src *T) error {
	if err := copyElem(dst, src); err != nil {
		memops.ZeroSlot(dst)
		return err
	}
	return nil
}

func constructMove[T any](dst, src *T) error {
	if err := moveElem(dst, src); err != nil {
		memops.ZeroSlot(dst)
		return err
	}
	return nil
}

func construct[T any](dst *T, ctor func(*T) error) error {
	if err := ctor(dst); err != nil {
		memops.ZeroSlot(dst)
		return err
	}
	return nil
}

func destroy[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	memops.ZeroSlot(p)
}

func destroyAll[T any](s []T) {
	for i := range s {
		destroy(&s[i])
	}
}
