// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// mpmcSlot holds one ring position: a 16-byte doubleword pairing the
// element's bit pattern with the tag that says who last claimed it, so
// a reader never observes a value without its matching tag. sig is the
// futex substitute a claimant blocks on when the slot isn't ready.
type mpmcSlot[T any] struct {
	entry atomix.Uint128 // lo = value word, hi = tag raw
	sig   signal
	_     [64 - 16 - 8]byte
}

// MPMC is a fixed-capacity, lock-free multi-producer/multi-consumer
// queue. Push and Pop block until a slot is available; TryPush and
// TryPop fail fast instead.
//
// Producers and consumers each draw tickets from their own FAA
// counter and race to pair each ticket against the slot its index
// lands on — see tag.go for the pairing rule this depends on.
type MPMC[T any] struct {
	_        pad
	tail     atomix.Uint64 // next ticket handed to a producer
	_        pad
	head     atomix.Uint64 // next ticket handed to a consumer
	_        pad
	buffer   []mpmcSlot[T]
	capacity uint64
	mask     uint64
}

// NewMPMC creates an MPMC queue. Capacity must be at least 1 and rounds
// up to the next power of 2, minimum 2.
//
// Panics if T's size exceeds 8 bytes: the doubleword slot has no room
// for a larger value, a constraint Go generics cannot express at
// compile time, so it's enforced here instead.
func NewMPMC[T any](capacity int) *MPMC[T] {
	assertFitsWord[T]()
	if capacity < 1 {
		panic("lfq: capacity must be >= 1")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]mpmcSlot[T], n),
		capacity: n,
		mask:     n - 1,
	}
	// head_ and tail_ start one full lap ahead of zero so the first
	// producer's prevPaired lookup lands on index 0's seed tag.
	q.tail.StoreRelaxed(n)
	q.head.StoreRelaxed(n)
	for i := uint64(0); i < n; i++ {
		q.buffer[i].entry.StoreRelaxed(0, uint64(tag(i).markConsumer()))
	}
	return q
}

// Push adds an element to the queue, blocking until a slot is free.
func (q *MPMC[T]) Push(v T) {
	myTag := tag(q.tail.AddAcqRel(1) - 1).markProducer()
	q.doPush(v, myTag)
}

// TryPush adds an element to the queue without blocking.
// Returns false if the queue was observed full.
func (q *MPMC[T]) TryPush(v T) bool {
	sw := spin.Wait{}
	head := q.head.LoadAcquire()
	expectedTail := head
	desiredTail := expectedTail + 1
	for !q.tail.CompareAndSwapRelaxed(expectedTail, desiredTail) {
		expectedTail = q.tail.LoadRelaxed()
		desiredTail = expectedTail + 1
		if desiredTail > head+q.capacity {
			return false
		}
		sw.Once()
	}
	q.doPush(v, tag(expectedTail).markProducer())
	return true
}

// Pop removes and returns an element, blocking until one is available.
func (q *MPMC[T]) Pop() T {
	myTag := tag(q.head.AddAcqRel(1) - 1).markConsumer()
	return q.doPop(myTag)
}

// TryPop removes and returns an element without blocking.
// Returns (zero-value, false) if the queue was observed empty.
func (q *MPMC[T]) TryPop() (T, bool) {
	sw := spin.Wait{}
	tail := q.tail.LoadAcquire()
	desiredHead := tail
	expectedHead := desiredHead - 1
	for !q.head.CompareAndSwapRelaxed(expectedHead, desiredHead) {
		expectedHead = q.head.LoadRelaxed()
		desiredHead = expectedHead + 1
		if desiredHead > tail {
			var zero T
			return zero, false
		}
		sw.Once()
	}
	return q.doPop(tag(expectedHead).markConsumer()), true
}

func (q *MPMC[T]) doPush(v T, myTag tag) {
	sw := spin.Wait{}
	slot := &q.buffer[myTag.index(q.mask)]
	for {
		lo, hi := slot.entry.LoadAcquire()
		observed := tag(hi)
		if !myTag.isPairedWith(observed, q.capacity) {
			q.waitForSlot(slot, observed)
			continue
		}
		if slot.entry.CompareAndSwapAcqRel(lo, hi, valueToWord(v), uint64(myTag)) {
			if observed.isWaiting() {
				slot.sig.wake()
			}
			return
		}
		sw.Once()
	}
}

func (q *MPMC[T]) doPop(myTag tag) T {
	sw := spin.Wait{}
	slot := &q.buffer[myTag.index(q.mask)]
	for {
		lo, hi := slot.entry.LoadAcquire()
		observed := tag(hi)
		if !myTag.isPairedWith(observed, q.capacity) {
			q.waitForSlot(slot, observed)
			continue
		}
		if slot.entry.CompareAndSwapAcqRel(lo, hi, 0, uint64(myTag)) {
			if observed.isWaiting() {
				slot.sig.wake()
			}
			return wordToValue[T](lo)
		}
		sw.Once()
	}
}

// waitForSlot blocks until the slot's tag changes away from observed,
// or returns immediately without blocking if that has already
// happened. One attempt only — callers loop and recheck pairing from
// scratch, so a spurious or racy return just costs one extra
// iteration, never correctness.
func (q *MPMC[T]) waitForSlot(slot *mpmcSlot[T], observed tag) {
	p := slot.sig.register()

	lo, hi := slot.entry.LoadAcquire()
	if tag(hi) != observed {
		return
	}

	want := observed.markWaiting()
	if tag(hi) != want && !slot.entry.CompareAndSwapAcqRel(lo, uint64(observed), lo, uint64(want)) {
		return
	}
	slot.sig.block(p)
}

// Size returns an approximate element count.
//
// Head is loaded before tail deliberately: this can overreport under a
// concurrent Push racing the two loads, but not underreport under a
// concurrent Pop the way the reverse order would. While a blocking Pop
// waits on an empty queue its ticket puts head ahead of tail; Size
// reports 0 then instead of a negative count.
func (q *MPMC[T]) Size() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the queue's fixed capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}

// Close drains every element currently in the queue via TryPop, so a T
// holding a pointer isn't kept reachable by a slot after the caller is
// done with the queue. Close does not itself stop concurrent
// producers; callers must stop pushing before calling Close.
func (q *MPMC[T]) Close() {
	for {
		if _, ok := q.TryPop(); !ok {
			return
		}
	}
}
