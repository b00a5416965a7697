// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command lfqbench drives the MPMC and MPSC queues with a configurable
// number of producers and consumers and reports throughput.
//
// Usage:
//
//	go run ./cmd/lfqbench -queue mpmc -producers 4 -consumers 4 -n 1000000 -size 1024
package main

import (
	"flag"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"
	"github.com/kelvinvalve/lfq"
)

func main() {
	queueKind := flag.String("queue", "mpmc", "queue kind: mpmc or mpsc")
	producers := flag.Int("producers", 4, "number of producer goroutines")
	consumers := flag.Int("consumers", 4, "number of consumer goroutines (mpsc forces 1)")
	n := flag.Int("n", 1_000_000, "total items to push, split across producers")
	size := flag.Int("size", 1024, "queue capacity")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *queueKind == "mpsc" && *consumers != 1 {
		log.Warn("mpsc supports a single consumer, overriding", "requested", *consumers)
		*consumers = 1
	}

	perProducer := *n / *producers
	total := perProducer * *producers

	log.Info("starting benchmark",
		"queue", *queueKind,
		"producers", *producers,
		"consumers", *consumers,
		"items", total,
		"capacity", *size,
	)

	var elapsed time.Duration
	switch *queueKind {
	case "mpsc":
		elapsed = runMPSC(*producers, perProducer, *size)
	default:
		elapsed = runMPMC(*producers, *consumers, perProducer, *size)
	}

	nsPerOp := float64(elapsed.Nanoseconds()) / float64(total)
	log.Info("benchmark complete",
		"elapsed", elapsed,
		"ns_per_op", nsPerOp,
		"m_ops_per_sec", 1000/nsPerOp,
	)
}

func runMPMC(numProducers, numConsumers, perProducer, size int) time.Duration {
	q := lfq.NewMPMC[int](size)

	var wg sync.WaitGroup
	start := time.Now()

	wg.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}

	total := int64(numProducers * perProducer)
	var consumed int64
	done := make(chan struct{})

	var cwg sync.WaitGroup
	cwg.Add(numConsumers)
	for c := 0; c < numConsumers; c++ {
		go func() {
			defer cwg.Done()
			backoff := iox.Backoff{}
			for atomic.LoadInt64(&consumed) < total {
				if _, ok := q.TryPop(); !ok {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				atomic.AddInt64(&consumed, 1)
			}
		}()
	}

	go func() {
		cwg.Wait()
		close(done)
	}()

	wg.Wait()
	<-done
	return time.Since(start)
}

func runMPSC(numProducers, perProducer, size int) time.Duration {
	q := lfq.NewMPSC[int](size)

	var wg sync.WaitGroup
	start := time.Now()

	wg.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 1; i <= perProducer; i++ {
				for !q.TryPush(i) {
					// queue momentarily full, retry
				}
			}
		}(p)
	}

	total := numProducers * perProducer
	consumed := 0
	for consumed < total {
		if _, ok := q.TryPop(); ok {
			consumed++
		}
	}

	wg.Wait()
	return time.Since(start)
}
