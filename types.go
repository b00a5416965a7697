// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// TryQueue is the non-blocking surface shared by MPMC and MPSC.
//
// Both TryPush and TryPop report status via a boolean rather than an
// exception-like mechanism: a false/zero-value return means the queue
// was observed full or empty at the moment of the attempt, not that
// anything failed. Callers that need to retry should supply their own
// backoff policy (see [code.hybscloud.com/iox.Backoff]).
//
// The interface intentionally excludes a blocking push/pop pair
// because MPSC has no blocking path; use the concrete [*MPMC] type
// directly when blocking semantics are required.
type TryQueue[T any] interface {
	// TryPush adds an element to the queue without blocking.
	// Returns false if the queue was observed full.
	TryPush(v T) bool
	// TryPop removes and returns an element without blocking.
	// Returns (zero-value, false) if the queue was observed empty.
	TryPop() (T, bool)
	// Size returns an approximate element count. Never negative,
	// may momentarily overreport under concurrent access.
	Size() int
	// Cap returns the queue's fixed capacity.
	Cap() int
}

// pad is cache-line padding placed between fields that are written by
// different producer/consumer roles to prevent false sharing.
type pad [64]byte

// roundToPow2 rounds n up to the next power of 2. n < 2 rounds up to 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
