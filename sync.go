// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import "iter"

// Iterator drives a pipeline synchronously. It owns its program and its
// done latch; iterators built from the same chain are independent.
// Single-consumer: Next must not be called concurrently.
type Iterator[V, R any] struct {
	p      *program
	serial Serial
	done   bool
}

// Iter builds an executable pipeline for synchronous iteration.
//
// Panics if the chain was declared over an asynchronous source
// (NewPoll) or contains asynchronous-only operators (Await, Delay).
// These are programmer errors, reported at build time rather than
// deferred to the first pull.
func (c *Chain[V, R]) Iter() *Iterator[V, R] {
	p := build(c.tail)
	if p.next == nil {
		panic("seq: synchronous iteration over an asynchronous source")
	}
	for i := range p.stages {
		switch p.stages[i].kind {
		case opAwait, opDelay:
			panic("seq: Await and Delay require an asynchronous iterator")
		}
	}
	return &Iterator[V, R]{p: p, serial: nextSerial()}
}

// Serial returns the serial number assigned to this pipeline build.
func (it *Iterator[V, R]) Serial() Serial {
	return it.serial
}

// Next pulls the next item through every stage and returns it.
//
// The pump is an explicit loop: the outer level re-pulls the root on a
// skip outcome, the inner level walks the stage list. Call-stack depth
// is constant in both the item count and the chain length.
//
// A source error propagates without latching the pipeline done; a
// retrying consumer re-enters the root on the next call. Once done is
// latched — source exhaustion or a stop outcome — every later call
// returns Done without touching the source or any stage.
func (it *Iterator[V, R]) Next() (Pull[V, R], error) {
	if it.done {
		return Pull[V, R]{Done: true}, nil
	}
pull:
	for {
		raw, err := it.p.next()
		if err != nil {
			return Pull[V, R]{}, err
		}
		if raw.done {
			it.done = true
			ret, _ := raw.ret.(R)
			return Pull[V, R]{Return: ret, Done: true}, nil
		}
		v := raw.value
		for i := range it.p.stages {
			out := it.p.stages[i].eval(v)
			switch out.kind {
			case outEmit:
				v = out.value
			case outSkip:
				continue pull
			case outStop:
				it.done = true
				return Pull[V, R]{Done: true}, nil
			}
		}
		val, _ := v.(V)
		return Pull[V, R]{Value: val}, nil
	}
}

// Seq exposes the iterator as a range-over-func sequence of
// (value, error) pairs. Iteration ends on completion or after yielding
// the first error; the terminal Return value is not visible to range
// loops — use Next or Collect to retrieve it.
func (it *Iterator[V, R]) Seq() iter.Seq2[V, error] {
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
func (it *Iterator[V, R]) Collect() ([]V, R, error) {
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
