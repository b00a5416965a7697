// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync/atomic"

// signal is a per-slot futex substitute: a way to block until some
// other goroutine has made progress on the same slot, without missing
// a wakeup that happens between the check and the block.
//
// Go exposes no portable futex, so this follows spec's documented
// fallback: a condition variable keyed by slot index, built from the
// one primitive that makes "wait on this exact value, wake everyone
// waiting on it" race-free without a lock — closing a channel.
type signal struct {
	ch atomic.Pointer[chan struct{}]
}

// register returns the channel to block on, creating one if no wait is
// currently registered for this slot. Safe for concurrent callers: at
// most one channel is ever installed at a time, and every caller sees
// the same one.
func (s *signal) register() *chan struct{} {
	if p := s.ch.Load(); p != nil {
		return p
	}
	ch := make(chan struct{})
	p := &ch
	if s.ch.CompareAndSwap(nil, p) {
		return p
	}
	return s.ch.Load()
}

// block waits on the channel p points to. p must come from register,
// called before the caller re-checked the condition it's waiting for,
// so a wake that races the block is never missed: either wake() has
// not run yet and block() waits for it, or wake() already closed p and
// block() returns immediately.
func (s *signal) block(p *chan struct{}) {
	<-*p
}

// wake releases every goroutine currently blocked in block, if any.
// Safe to call even when nobody registered a wait.
func (s *signal) wake() {
	p := s.ch.Swap(nil)
	if p != nil {
		close(*p)
	}
}
