// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"iter"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// AsyncIterator drives a pipeline asynchronously. Each pull is a kont
// computation whose suspension points (source readiness, Await, Delay)
// dispatch non-blocking operations; Next waits past them with adaptive
// backoff, while Step and Advance expose them to an external driver.
//
// Items are processed strictly one at a time: a pull runs to completion
// before the next begins, so output order equals input order.
// Single-consumer: Next, Step and Advance must not be called
// concurrently.
type AsyncIterator[V, R any] struct {
	p      *program
	ctx    streamContext
	serial Serial
	done   bool
}

// AsyncIter builds an executable pipeline for asynchronous iteration.
// A chain declared over a synchronous source may be driven this way
// too; its pulls simply never suspend at the root.
func (c *Chain[V, R]) AsyncIter() *AsyncIterator[V, R] {
	p := build(c.tail)
	return &AsyncIterator[V, R]{
		p:      p,
		ctx:    streamContext{poll: p.poll},
		serial: nextSerial(),
	}
}

// Serial returns the serial number assigned to this pipeline build.
func (it *AsyncIterator[V, R]) Serial() Serial {
	return it.serial
}

// streamHandler implements kont.Handler for pipeline effects,
// converting non-blocking dispatch into blocking evaluation. Waits
// past iox.ErrWouldBlock with adaptive backoff; any other dispatch
// error short-circuits the computation with Left.
// Value type: passed to the evaluation loop on the stack.
type streamHandler[R any] struct {
	ctx *streamContext
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h streamHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(streamDispatcher)
	if !ok {
		panic("seq: unhandled effect in streamHandler")
	}
	var bo iox.Backoff
	for {
		v, err := sop.DispatchStream(h.ctx)
		if err == nil {
			return v, true
		}
		if !iox.IsWouldBlock(err) {
			return kont.Left[error, rawPull](err), false
		}
		bo.Wait()
	}
}

// pull lifts one pull computation into the error channel: Right on a
// completed pull, Left when a dispatch fails.
func (it *AsyncIterator[V, R]) pull() kont.Eff[kont.Either[error, rawPull]] {
	return kont.Map[kont.Resumed, rawPull, kont.Either[error, rawPull]](pullEff(it.p), func(raw rawPull) kont.Either[error, rawPull] {
		return kont.Right[error](raw)
	})
}

// seal converts a completed pull computation into the typed result,
// latching done on completion. Errors propagate without latching, so a
// consumer that handles the error may keep pulling.
func (it *AsyncIterator[V, R]) seal(res kont.Either[error, rawPull]) (Pull[V, R], error) {
	if err, ok := res.GetLeft(); ok {
		return Pull[V, R]{}, err
	}
	raw, _ := res.GetRight()
	if raw.done {
		it.done = true
		ret, _ := raw.ret.(R)
		return Pull[V, R]{Return: ret, Done: true}, nil
	}
	val, _ := raw.value.(V)
	return Pull[V, R]{Value: val}, nil
}

// Next pulls the next item through every stage, waiting past suspension
// boundaries with adaptive backoff (iox.Backoff). Does not spawn
// goroutines or create channels. Once done is latched, every later call
// returns Done without touching the source or any stage.
func (it *AsyncIterator[V, R]) Next() (Pull[V, R], error) {
	if it.done {
		return Pull[V, R]{Done: true}, nil
	}
	h := streamHandler[kont.Either[error, rawPull]]{ctx: &it.ctx}
	return it.seal(kont.Handle(it.pull(), h))
}

// ForEach drains the pipeline, invoking fn on each item in order, and
// returns the source's terminal value once exhausted.
func (it *AsyncIterator[V, R]) ForEach(fn func(V)) (R, error) {
	for {
		p, err := it.Next()
		if err != nil {
			var zero R
			return zero, err
		}
		if p.Done {
			return p.Return, nil
		}
		fn(p.Value)
	}
}

// Seq exposes the iterator as a range-over-func sequence of
// (value, error) pairs, blocking at suspension boundaries. The terminal
// Return value is not visible to range loops — use Next or ForEach to
// retrieve it.
func (it *AsyncIterator[V, R]) Seq() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for {
			p, err := it.Next()
			if err != nil {
				var zero V
				yield(zero, err)
				return
			}
			if p.Done {
				return
			}
			if !yield(p.Value, nil) {
				return
			}
		}
	}
}

// Collect drains the iterator, returning every emitted item, the
// terminal value, and the first error encountered.
func (it *AsyncIterator[V, R]) Collect() ([]V, R, error) {
	var items []V
	for {
		p, err := it.Next()
		if err != nil {
			var zero R
			return items, zero, err
		}
		if p.Done {
			return items, p.Return, nil
		}
		items = append(items, p.Value)
	}
}

// ForEach drains the chain through a fresh asynchronous pipeline,
// invoking fn on each item, and returns the source's terminal value.
func (c *Chain[V, R]) ForEach(fn func(V)) (R, error) {
	return c.AsyncIter().ForEach(fn)
}
