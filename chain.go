// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"time"

	"code.hybscloud.com/kont"
)

// opKind discriminates the closed set of operator variants.
type opKind uint8

const (
	opRoot opKind = iota
	opMap
	opFilter
	opSkip
	opSkipWhile
	opTake
	opTakeWhile
	opTakeUntil
	opAwait
	opDelay
)

// node is one operator descriptor: the operator kind, its
// behavior-defining data, and a link to the previous descriptor.
// The chain is a singly linked list ending at a root node.
//
// Nodes are immutable after construction. Mutable operator state
// (skip counters, taking flags) lives on built stages, so a chain is
// a reusable template: independently built pipelines never share
// state. Stage values are type-erased (kont.Erased); the typed Chain
// wrappers recover concrete types at the API boundary.
type node struct {
	prev  *node
	kind  opKind
	fn    func(kont.Erased) kont.Erased
	pred  func(kont.Erased) bool
	count int
	pause time.Duration
	await func(kont.Erased) func() (kont.Erased, error)
	next  func() (rawPull, error) // root pull, synchronous world
	poll  func() (rawPull, error) // root pull, asynchronous world
}

// Chain is an immutable pipeline declaration over items of type V with
// terminal-return type R. Operator calls never mutate the receiver;
// each returns a new Chain wrapping the previous one. No work happens
// until Iter, AsyncIter or ForEach builds an executable pipeline.
type Chain[V, R any] struct {
	tail *node
}

// erase converts a typed pull result to the type-erased representation
// flowing through stages.
func erase[V, R any](p Pull[V, R], err error) (rawPull, error) {
	if err != nil {
		return rawPull{}, err
	}
	if p.Done {
		return rawPull{ret: p.Return, done: true}, nil
	}
	return rawPull{value: p.Value}, nil
}

// New declares a pipeline over a synchronous source. The resulting
// chain can be driven by both the synchronous and the asynchronous
// world.
func New[V, R any](src Source[V, R]) *Chain[V, R] {
	return &Chain[V, R]{tail: &node{
		kind: opRoot,
		next: func() (rawPull, error) { return erase(src.Next()) },
		poll: func() (rawPull, error) { return erase(src.Next()) },
	}}
}

// NewPoll declares a pipeline over an asynchronous source. The
// resulting chain can only be driven by the asynchronous world;
// Chain.Iter panics on it.
func NewPoll[V, R any](src PollSource[V, R]) *Chain[V, R] {
	return &Chain[V, R]{tail: &node{
		kind: opRoot,
		poll: func() (rawPull, error) { return erase(src.Poll()) },
	}}
}

func (c *Chain[V, R]) push(n *node) *Chain[V, R] {
	n.prev = c.tail
	return &Chain[V, R]{tail: n}
}

// Map transforms each item with f.
func (c *Chain[V, R]) Map(f func(V) V) *Chain[V, R] {
	return c.push(&node{kind: opMap, fn: func(v kont.Erased) kont.Erased {
		return f(v.(V))
	}})
}

// Select is an alias for Map.
func (c *Chain[V, R]) Select(f func(V) V) *Chain[V, R] { return c.Map(f) }

// Filter passes through only the items for which p reports true.
func (c *Chain[V, R]) Filter(p func(V) bool) *Chain[V, R] {
	return c.push(&node{kind: opFilter, pred: func(v kont.Erased) bool {
		return p(v.(V))
	}})
}

// Where is an alias for Filter.
func (c *Chain[V, R]) Where(p func(V) bool) *Chain[V, R] { return c.Filter(p) }

// Skip discards the first count items, then passes everything through.
func (c *Chain[V, R]) Skip(count int) *Chain[V, R] {
	return c.push(&node{kind: opSkip, count: count})
}

// SkipWhile discards items while p reports true. Once p reports false
// for an item, that item and all subsequent items pass through and p is
// never evaluated again for this pipeline.
func (c *Chain[V, R]) SkipWhile(p func(V) bool) *Chain[V, R] {
	return c.push(&node{kind: opSkipWhile, pred: func(v kont.Erased) bool {
		return p(v.(V))
	}})
}

// SkipUntil discards items until p reports true; the triggering item
// and all subsequent items pass through.
func (c *Chain[V, R]) SkipUntil(p func(V) bool) *Chain[V, R] {
	return c.push(&node{kind: opSkipWhile, pred: func(v kont.Erased) bool {
		return !p(v.(V))
	}})
}

// Take emits only the first count items, then stops the pipeline.
func (c *Chain[V, R]) Take(count int) *Chain[V, R] {
	return c.push(&node{kind: opTake, count: count})
}

// TakeWhile emits items while p reports true. The first item for which
// p reports false is not emitted and stops the pipeline.
func (c *Chain[V, R]) TakeWhile(p func(V) bool) *Chain[V, R] {
	return c.push(&node{kind: opTakeWhile, pred: func(v kont.Erased) bool {
		return p(v.(V))
	}})
}

// TakeUntil emits items until p reports true. Unlike TakeWhile, the
// triggering item is emitted; the pipeline stops on the item after it.
func (c *Chain[V, R]) TakeUntil(p func(V) bool) *Chain[V, R] {
	return c.push(&node{kind: opTakeUntil, pred: func(v kont.Erased) bool {
		return p(v.(V))
	}})
}

// Delay suspends for d before passing each item through unchanged.
// Asynchronous world only: Chain.Iter panics on chains containing it.
func (c *Chain[V, R]) Delay(d time.Duration) *Chain[V, R] {
	return c.push(&node{kind: opDelay, pause: d})
}

// Map transforms each item of c with f, changing the item type.
func Map[V, U, R any](c *Chain[V, R], f func(V) U) *Chain[U, R] {
	n := &node{prev: c.tail, kind: opMap, fn: func(v kont.Erased) kont.Erased {
		return f(v.(V))
	}}
	return &Chain[U, R]{tail: n}
}

// Await resolves each Deferred item, suspending until its value is
// available, and passes the resolved value through. A rejected Deferred
// fails the pull that pulled it. Asynchronous world only: Chain.Iter
// panics on chains containing it.
func Await[V, R any](c *Chain[Deferred[V], R]) *Chain[V, R] {
	n := &node{prev: c.tail, kind: opAwait, await: func(item kont.Erased) func() (kont.Erased, error) {
		d := item.(Deferred[V])
		return func() (kont.Erased, error) {
			v, err := d.Poll()
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}}
	return &Chain[V, R]{tail: n}
}
