// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// assertFitsWord panics if T does not fit inside the 64-bit word half of
// the doubleword slot exchange. Go generics have no way to express
// "T's size is at most 8 bytes" as a compile-time constraint, so this
// is enforced at construction time instead.
func assertFitsWord[T any]() {
	var v T
	if unsafe.Sizeof(v) > unsafe.Sizeof(uint64(0)) {
		panic("lfq: element type exceeds 8 bytes")
	}
}

// valueToWord reinterprets v's bit pattern as a uint64, zero-extended.
// T must have already passed assertFitsWord.
func valueToWord[T any](v T) uint64 {
	var w uint64
	*(*T)(unsafe.Pointer(&w)) = v
	return w
}

// wordToValue is the inverse of valueToWord.
func wordToValue[T any](w uint64) T {
	return *(*T)(unsafe.Pointer(&w))
}
