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

// Package ints provides int-related common functions.
package ints

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller value of x and y
func Min[T constraints.Integer](x, y T) T {
	if x <= y {
		return x
	}
	return y
}

// MulChecked returns x*y and whether the product
// fits in a uintptr without wrapping.
func MulChecked(x, y uintptr) (uintptr, bool) {
	hi, lo := bits.Mul64(uint64(x), uint64(y))
	if hi != 0 || uint64(uintptr(lo)) != lo {
		return 0, false
	}
	return uintptr(lo), true
}

// Grow returns the capacity that follows n
// under geometric doubling. The result is at
// least 1 and saturates at limit.
func Grow[T constraints.Integer](n, limit T) T {
	if n <= 0 {
		return Min(1, limit)
	}
	if n > limit/2 {
		return limit
	}
	return n * 2
}
