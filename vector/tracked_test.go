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
	"testing"

	"github.com/google/uuid"

	"github.com/SnellerInc/vector/internal/rawmem"
)

var errInjected = errors.New("injected failure")

// ledger records the lifecycle of instrumented
// elements and injects failures into fallible
// element operations.
type ledger struct {
	live       map[uuid.UUID]bool
	ctors      int
	dtors      int
	copies     int
	moves      int
	doubleFree int

	ops    int
	failAt int
}

// current receives elements built by Init,
// which has no source to take a ledger from.
var current *ledger

// track installs a fresh ledger and verifies at the end
// of the test that no buffer or element leaked.
func track(t *testing.T) *ledger {
	t.Helper()
	l := &ledger{live: make(map[uuid.UUID]bool)}
	current = l
	buffers := rawmem.InUse()
	t.Cleanup(func() {
		current = nil
		if n := rawmem.InUse(); n != buffers {
			t.Errorf("%d buffers leaked", n-buffers)
		}
		if l.doubleFree != 0 {
			t.Errorf("%d elements destroyed twice", l.doubleFree)
		}
		if n := len(l.live); n != 0 {
			t.Errorf("%d elements leaked (%d constructed, %d destroyed)", n, l.ctors, l.dtors)
		}
	})
	return l
}

// failAfter makes the k-th fallible operation
// from now fail; k == 0 disables injection.
func (l *ledger) failAfter(k int) {
	l.ops = 0
	l.failAt = k
}

func (l *ledger) step() error {
	l.ops++
	if l.failAt > 0 && l.ops == l.failAt {
		l.failAt = 0
		return errInjected
	}
	return nil
}

func (l *ledger) born() uuid.UUID {
	id := uuid.New()
	l.live[id] = true
	l.ctors++
	return id
}

func (l *ledger) died(id uuid.UUID) {
	if !l.live[id] {
		l.doubleFree++
		return
	}
	delete(l.live, id)
	l.dtors++
}

func (l *ledger) alive() int { return len(l.live) }

// core is the state shared by the instrumented
// element types. obj identifies a construction;
// origin is carried by moves and renewed by copies.
type core struct {
	obj    uuid.UUID
	origin uuid.UUID
	val    int
	l      *ledger
}

func (l *ledger) core(val int) core {
	id := l.born()
	return core{obj: id, origin: id, val: val, l: l}
}

func (c *core) raw() bool { return c.l == nil }

func (c *core) value() int { return c.val }

func (c *core) identity() uuid.UUID { return c.obj }

func (c *core) Init() error {
	l := current
	if err := l.step(); err != nil {
		return err
	}
	c.obj = l.born()
	c.origin = c.obj
	c.l = l
	return nil
}

func (c *core) Destroy() {
	if c.l == nil {
		panic("destroy of a raw slot")
	}
	c.l.died(c.obj)
}

func (c *core) copyFrom(src *core) error {
	if err := src.l.step(); err != nil {
		return err
	}
	src.l.copies++
	if c.l == nil {
		c.obj = src.l.born()
		c.l = src.l
	}
	c.origin = uuid.New()
	c.val = src.val
	return nil
}

func (c *core) moveFrom(src *core, fallible bool) error {
	if fallible {
		if err := src.l.step(); err != nil {
			return err
		}
	}
	src.l.moves++
	if c.l == nil {
		c.obj = src.l.born()
		c.l = src.l
	}
	c.origin, c.val = src.origin, src.val
	src.origin, src.val = uuid.Nil, 0
	return nil
}

// fragile has a move that may fail and a copy.
type fragile struct{ core }

func (l *ledger) fragile(val int) fragile { return fragile{l.core(val)} }

func (f *fragile) CopyFrom(src *fragile) error { return f.copyFrom(&src.core) }

func (f *fragile) TryMoveFrom(src *fragile) error { return f.moveFrom(&src.core, true) }

// sturdy has a move that cannot fail and a copy.
type sturdy struct{ core }

func (l *ledger) sturdy(val int) sturdy { return sturdy{l.core(val)} }

func (s *sturdy) CopyFrom(src *sturdy) error { return s.copyFrom(&src.core) }

func (s *sturdy) MoveFrom(src *sturdy) { s.moveFrom(&src.core, false) }

// unique can only be moved, and its move may fail.
type unique struct{ core }

func (l *ledger) unique(val int) unique { return unique{l.core(val)} }

func (u *unique) TryMoveFrom(src *unique) error { return u.moveFrom(&src.core, true) }

func (u *unique) MoveOnly() {}

type instrumented interface {
	raw() bool
	value() int
	identity() uuid.UUID
}

// state is what the strong guarantee preserves.
type state struct {
	size, capacity int
	addr           any
	objs           []uuid.UUID
	vals           []int
}

func snapshot[T any](v *Vector[T]) state {
	s := state{size: v.Size(), capacity: v.Capacity(), addr: v.data.Address()}
	for i := range v.Values() {
		e := any(v.At(i)).(instrumented)
		s.objs = append(s.objs, e.identity())
		s.vals = append(s.vals, e.value())
	}
	return s
}

func sameState(a, b state) bool {
	if a.size != b.size || a.capacity != b.capacity || a.addr != b.addr {
		return false
	}
	for i := range a.objs {
		if a.objs[i] != b.objs[i] || a.vals[i] != b.vals[i] {
			return false
		}
	}
	return true
}

func values[T any](v *Vector[T]) []int {
	var out []int
	for i := range v.Values() {
		out = append(out, any(v.At(i)).(instrumented).value())
	}
	return out
}

// check verifies the invariants that hold between
// operations; held is the number of live instrumented
// values owned by the test rather than by v.
func check[T any](t *testing.T, v *Vector[T], l *ledger, held int) {
	t.Helper()
	if v.Size() < 0 || v.Size() > v.Capacity() {
		t.Fatalf("size %d, capacity %d", v.Size(), v.Capacity())
	}
	if len(v.Values()) != v.Size() {
		t.Fatalf("Values has %d elements, size %d", len(v.Values()), v.Size())
	}
	if (v.Capacity() == 0) != (v.data.Address() == nil) {
		t.Fatalf("capacity %d with address %p", v.Capacity(), v.data.Address())
	}
	for i, e := range v.data.Slots(0, v.Capacity()) {
		in, ok := any(&e).(instrumented)
		if !ok {
			break
		}
		if in.raw() != (i >= v.Size()) {
			t.Fatalf("slot %d: raw=%v, size %d", i, in.raw(), v.Size())
		}
	}
	if l != nil {
		if got := l.alive(); got != v.Size()+held {
			t.Fatalf("%d live elements, want %d", got, v.Size()+held)
		}
		if l.doubleFree != 0 {
			t.Fatalf("%d elements destroyed twice", l.doubleFree)
		}
	}
}
