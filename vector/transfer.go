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

// transferToRaw constructs dst[i] from src[i] for
// every element of src, moving or copying according
// to relocateByMove. dst must be raw and at least as
// long as src. If a transfer fails, the elements already
// constructed in dst are destroyed and dst is all raw.
func transferToRaw[T any](dst, src []T) error {
	byMove := relocateByMove[T]()
	for i := range src {
		var err error
		if byMove {
			err = constructMove(&dst[i], &src[i])
		} else {
			err = constructCopy(&dst[i], &src[i])
		}
		if err != nil {
			destroyAll(dst[:i])
			return err
		}
	}
	return nil
}

// transferToLive overwrites the live elements of dst
// with src, front to back. It is safe for dst to
// overlap src as long as dst starts before src.
func transferToLive[T any](dst, src []T) error {
	for i := range src {
		if err := transferElem(&dst[i], &src[i]); err != nil {
			return err
		}
	}
	return nil
}

// relocation tracks what has been constructed in
// a fresh buffer while a reallocating operation runs:
// the slot of the inserted element and the
// range of elements transferred so far.
type relocation[T any] struct {
	buf    []T
	single int
	lo, hi int
}

func newRelocation[T any](buf []T, single int) relocation[T] {
	return relocation[T]{buf: buf, single: single, lo: single, hi: single}
}

// transferred records that buf[lo:hi] is live.
func (r *relocation[T]) transferred(lo, hi int) {
	r.lo, r.hi = lo, hi
}

// unwind destroys everything recorded in r.
func (r *relocation[T]) unwind() {
	destroy(&r.buf[r.single])
	destroyAll(r.buf[r.lo:r.hi])
}
