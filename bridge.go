// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// Queue bridges a producer goroutine into a pipeline over a bounded
// lock-free SPSC queue. The producer side pushes items and closes with
// a terminal value; the pipeline side consumes it as a PollSource via
// NewPoll. Single-producer, single-consumer.
type Queue[V, R any] struct {
	q      lfq.SPSC[V]
	closed atomix.Uint32
	ret    R
	slot   V
}

// NewQueue creates a bridge with the given bounded capacity.
func NewQueue[V, R any](capacity int) *Queue[V, R] {
	q := &Queue[V, R]{}
	q.q.Init(capacity)
	return q
}

// Push enqueues one item. Non-blocking: returns iox.ErrWouldBlock when
// the queue is full (backpressure — the consumer has not caught up).
// Must not be called after Close.
func (q *Queue[V, R]) Push(v V) error {
	q.slot = v
	return q.q.Enqueue(&q.slot)
}

// Close marks the producer side finished with terminal value ret.
// Items pushed before Close are still delivered before the pipeline
// observes completion.
func (q *Queue[V, R]) Close(ret R) {
	q.ret = ret
	q.closed.Store(1)
}

// Poll implements PollSource: queued items first, then completion with
// the terminal value once the producer has closed.
func (q *Queue[V, R]) Poll() (Pull[V, R], error) {
	v, err := q.q.Dequeue()
	if err == nil {
		return Pull[V, R]{Value: v}, nil
	}
	if q.closed.Load() == 0 {
		return Pull[V, R]{}, err
	}
	// The close flag is set after the producer's final enqueue, so one
	// more drain catches items that raced with the first dequeue.
	v, err = q.q.Dequeue()
	if err == nil {
		return Pull[V, R]{Value: v}, nil
	}
	return Pull[V, R]{Return: q.ret, Done: true}, nil
}
