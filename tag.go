// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// tag is the 64-bit word stored alongside every MPMC slot value.
//
// Bit 63 marks which role (producer or consumer) wrote the tag. Bit 62
// marks that some goroutine is blocked waiting on the slot and must be
// woken on the next exchange. The low 62 bits hold the raw ticket
// number handed out by the queue's head or tail counter; a slot's
// index is that ticket number modulo the queue's capacity, so the same
// slot is revisited once per lap of the ring.
//
// A tag never carries the slot value itself — see word.go for the
// separate value<->uint64 conversion used by the doubleword exchange.
type tag uint64

const (
	tagConsumerFlag uint64 = 1 << 63
	tagWaitingFlag  uint64 = 1 << 62
)

// value returns the ticket number, with the role and waiting bits
// stripped.
func (t tag) value() uint64 {
	return uint64(t) &^ (tagConsumerFlag | tagWaitingFlag)
}

func (t tag) isProducer() bool {
	return uint64(t)&tagConsumerFlag == 0
}

func (t tag) isConsumer() bool {
	return uint64(t)&tagConsumerFlag != 0
}

// markProducer clears the role bit, leaving the ticket number and
// waiting bit untouched.
func (t tag) markProducer() tag {
	return tag(uint64(t) &^ tagConsumerFlag)
}

// markConsumer sets the role bit, leaving the ticket number and
// waiting bit untouched.
func (t tag) markConsumer() tag {
	return tag(uint64(t) | tagConsumerFlag)
}

func (t tag) isWaiting() bool {
	return uint64(t)&tagWaitingFlag != 0
}

func (t tag) markWaiting() tag {
	return tag(uint64(t) | tagWaitingFlag)
}

func (t tag) clearWaiting() tag {
	return tag(uint64(t) &^ tagWaitingFlag)
}

// index maps this ticket to a slot index given a capacity bit-mask
// (mask = capacity-1).
func (t tag) index(mask uint64) int {
	return int(uint64(t) & mask)
}

// prevPaired returns the tag a ticket holder must already find resident
// in its target slot before it may claim that slot for this ticket.
//
//   - A consumer ticket must find the producer tag of the exact same
//     ticket number: the i-th pop is paired with the i-th push.
//   - A producer ticket must find the consumer tag left behind one lap
//     (capacity tickets) earlier in the same slot: the slot must have
//     already been drained before it is reused.
func (t tag) prevPaired(capacity uint64) tag {
	raw := uint64(t)
	if t.isConsumer() {
		return tag((raw ^ tagConsumerFlag) &^ tagWaitingFlag)
	}
	return tag(((raw - capacity) ^ tagConsumerFlag) &^ tagWaitingFlag)
}

// isPairedWith reports whether observed is exactly the tag this ticket
// holder needed to see already in the slot to proceed.
func (t tag) isPairedWith(observed tag, capacity uint64) bool {
	return t.prevPaired(capacity) == observed.clearWaiting()
}
