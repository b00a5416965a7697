// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"sort"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
	"github.com/kelvinvalve/lfq"
)

var _ lfq.TryQueue[int] = (*lfq.MPSC[int])(nil)

func TestMPSCTryPushTryPop(t *testing.T) {
	q := lfq.NewMPSC[int](7)

	for _, v := range []int{1, 2, 3, 4, 5, 6, 7} {
		if !q.TryPush(v) {
			t.Fatalf("TryPush(%d) failed before queue should be full", v)
		}
	}

	assertWithinCapacity[int](t, q)
	if q.TryPush(8) {
		t.Fatal("TryPush succeeded past usable capacity")
	}

	for _, want := range []int{1, 2, 3, 4, 5, 6, 7} {
		got, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop reported empty, want %d", want)
		}
		if got != want {
			t.Fatalf("TryPop() = %d, want %d", got, want)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Fatal("TryPop on empty queue should report empty")
	}
}

func TestMPSCOneShortOfFullBoundary(t *testing.T) {
	q := lfq.NewMPSC[int](4)

	for i := 1; i < q.Cap(); i++ {
		if !q.TryPush(i) {
			t.Fatalf("TryPush(%d) unexpectedly failed while one short of full", i)
		}
	}

	var n int
	if !q.TryPushSize(q.Cap()-1, &n) {
		t.Fatal("TryPushSize failed on the last free slot")
	}
	if n != q.Cap() {
		t.Fatalf("TryPushSize reported size %d after filling, want %d", n, q.Cap())
	}

	if q.TryPush(999) {
		t.Fatal("TryPush succeeded on a full queue")
	}
}

func TestMPSCZeroValuePanics(t *testing.T) {
	q := lfq.NewMPSC[int](4)
	defer func() {
		if recover() == nil {
			t.Fatal("TryPush(0) did not panic")
		}
	}()
	q.TryPush(0)
}

func TestMPSCZeroPointerPanics(t *testing.T) {
	q := lfq.NewMPSC[*int](4)
	defer func() {
		if recover() == nil {
			t.Fatal("TryPush(nil) did not panic")
		}
	}()
	q.TryPush(nil)
}

// TestMPSCManyProducersOneConsumer pushes distinct non-null pointers
// from several producers under contention and checks the single
// consumer observes every one exactly once.
func TestMPSCManyProducersOneConsumer(t *testing.T) {
	if lfq.RaceEnabled {
		t.Skip("skip: lock-free cross-field ordering is invisible to the race detector")
	}

	const (
		numProducers    = 8
		itemsPerProduce = 5000
	)

	q := lfq.NewMPSC[*int](64)

	ids := make([][]*int, numProducers)
	for p := range ids {
		ids[p] = make([]*int, itemsPerProduce)
		for s := range ids[p] {
			v := p*itemsPerProduce + s
			ids[p][s] = &v
		}
	}

	var produceWg sync.WaitGroup
	for p := 0; p < numProducers; p++ {
		produceWg.Add(1)
		go func(p int) {
			defer produceWg.Done()
			backoff := iox.Backoff{}
			for _, ptr := range ids[p] {
				for !q.TryPush(ptr) {
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	total := numProducers * itemsPerProduce
	got := make([]int, 0, total)

	done := make(chan struct{})
	go func() {
		produceWg.Wait()
		close(done)
	}()

	backoff := iox.Backoff{}
	for len(got) < total {
		v, ok := q.TryPop()
		if !ok {
			backoff.Wait()
			continue
		}
		backoff.Reset()
		got = append(got, *v)
	}
	<-done

	sort.Ints(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("at sorted index %d: got %d, want %d (missing or duplicated item)", i, v, i)
		}
	}
}

func TestMPSCCapacityAtLeastRequested(t *testing.T) {
	cases := []int{1, 3, 7, 8, 100}
	for _, req := range cases {
		q := lfq.NewMPSC[int](req)
		if q.Cap() < req {
			t.Errorf("NewMPSC(%d).Cap() = %d, want >= %d", req, q.Cap(), req)
		}
	}
}

func TestMPSCClose(t *testing.T) {
	q := lfq.NewMPSC[int](4)
	for _, v := range []int{1, 2, 3} {
		if !q.TryPush(v) {
			t.Fatalf("TryPush(%d) failed", v)
		}
	}

	q.Close()

	if _, ok := q.TryPop(); ok {
		t.Fatal("queue should be empty after Close")
	}
}
