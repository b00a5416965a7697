// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides two fixed-capacity, lock-free FIFO queues:
//
//   - [MPMC]: multiple producers, multiple consumers, blocking and
//     non-blocking push/pop.
//   - [MPSC]: multiple producers, single consumer, non-blocking only.
//
// # Quick Start
//
//	q := lfq.NewMPMC[int](1024)
//
//	q.Push(42)        // blocks until a slot is free
//	v := q.Pop()       // blocks until a value is available
//
//	ok := q.TryPush(7) // fails fast instead of blocking
//	v, ok := q.TryPop()
//
// # The ticket/tag protocol
//
// MPMC dispenses a monotonically increasing ticket per push or pop
// from an atomic counter. A ticket's low bits select a ring slot;
// the rest of the ticket, plus a role bit recording producer or
// consumer, forms the tag a claimant must find already resident in
// that slot before it may write it. This pairs the i-th push with the
// i-th pop without any of the contention a single shared lock would
// cause. See tag.go for the exact pairing rule.
//
// MPMC additionally blocks: a ticket holder that finds its slot not
// yet paired registers a wait and parks instead of spinning
// indefinitely, and the claimant that eventually satisfies the pairing
// wakes it. Go exposes no portable futex, so the wait is built from
// [sync/atomic.Pointer] and a channel close instead — functionally the
// same condition-variable-per-slot shape, without relying on an OS
// primitive this module can't safely reach from pure Go.
//
// MPSC never blocks. It packs a head and tail cursor into one word and
// keeps one ring slot permanently empty so full and empty can be told
// apart without a separate counter. If more than one goroutine calls
// TryPop concurrently, no item is dropped, but delivery order across
// those callers is not guaranteed.
//
// # Common Patterns
//
// Worker pool (MPMC):
//
//	q := lfq.NewMPMC[Job](4096)
//
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job := q.Pop()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	func Submit(j Job) {
//	    q.Push(j)
//	}
//
// Event aggregation (MPSC):
//
//	q := lfq.NewMPSC[Event](4096)
//
//	for _, sensor := range sensors {
//	    go func(s Sensor) {
//	        for ev := range s.Events() {
//	            backoff := iox.Backoff{}
//	            for !q.TryPush(ev) {
//	                backoff.Wait()
//	            }
//	        }
//	    }(sensor)
//	}
//
//	go func() { // single aggregator
//	    backoff := iox.Backoff{}
//	    for {
//	        ev, ok := q.TryPop()
//	        if !ok {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        aggregate(ev)
//	    }
//	}()
//
// # Element type constraints
//
// Both queues require the element type to fit in 64 bits — Go generics
// have no way to express that as a compile-time bound, so [NewMPMC] and
// [NewMPSC] check it at construction and panic otherwise. MPSC further
// requires that the all-zero value of T is never pushed: a zero slot
// means "claimed but not yet written", so a genuine zero value would
// be indistinguishable from an empty one.
//
// # Capacity
//
// MPMC capacity rounds up to the next power of 2, minimum 2:
//
//	q := lfq.NewMPMC[int](1000)  // actual capacity: 1024
//
// MPSC keeps one physical slot empty, so its usable capacity is one
// less than a power of 2; requesting capacity rounds the physical ring
// up so the usable capacity is at least what was asked for.
//
// Size is intentionally approximate: an exact count would need
// cross-core synchronization neither queue otherwise pays for.
//
// # Graceful shutdown
//
// Call [*MPMC.Close] or [*MPSC.Close] after producers have stopped to
// drain any remaining elements — useful when T holds a pointer that
// would otherwise stay reachable through an abandoned slot.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// The race detector tracks explicit synchronization primitives (mutex, channels,
// WaitGroup) but cannot observe happens-before relationships established through
// atomic memory orderings (acquire-release semantics).
//
// Lock-free queues use sequence numbers with acquire-release semantics to
// protect non-atomic data fields. These algorithms are correct, but the race
// detector may report false positives because it cannot track synchronization
// provided by atomic operations on separate variables.
//
// For lock-free algorithm correctness verification, use:
//   - Formal verification tools (TLA+, SPIN)
//   - Stress testing without race detector
//   - Memory model analysis
//
// Tests incompatible with race detection check the [RaceEnabled] constant
// and skip themselves at runtime rather than being excluded at build time.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions, and [code.hybscloud.com/iox] for the [iox.Backoff] retry
// helper shown above.
package lfq
