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

// Package memops implements memory block manipulation primitives
// for slots that hold no live value.
package memops

// ZeroMemory resets every element of buf to the zero value of T.
// Any references held by buf are dropped, so the garbage
// collector no longer sees them through buf.
func ZeroMemory[T any](buf []T) {
	clear(buf)
}

// ZeroSlot resets the single element at p.
func ZeroSlot[T any](p *T) {
	var zero T
	*p = zero
}
