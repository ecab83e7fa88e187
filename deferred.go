// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Deferred is an asynchronous value container with a single eventual
// resolution. Poll is non-blocking: it returns iox.ErrWouldBlock while
// the value is pending, and afterwards always reports the same
// resolution. Await consumes Deferred items.
type Deferred[V any] interface {
	Poll() (V, error)
}

// Resolved returns a Deferred already resolved to v.
func Resolved[V any](v V) Deferred[V] {
	return resolved[V]{v: v}
}

type resolved[V any] struct{ v V }

func (d resolved[V]) Poll() (V, error) { return d.v, nil }

// Rejected returns a Deferred already failed with err.
func Rejected[V any](err error) Deferred[V] {
	return rejected[V]{err: err}
}

type rejected[V any] struct{ err error }

func (d rejected[V]) Poll() (V, error) {
	var zero V
	return zero, d.err
}

const (
	promisePending = iota
	promiseWriting
	promiseResolved
)

// Promise is a single-assignment Deferred completed from another
// goroutine. Resolution is published with a release store on the state
// word; Poll acquires it, so the value is safe to read once Poll stops
// returning iox.ErrWouldBlock.
type Promise[V any] struct {
	state atomix.Uint32
	value V
	err   error
}

// NewPromise creates a pending Promise.
func NewPromise[V any]() *Promise[V] {
	return &Promise[V]{}
}

// Complete resolves the promise with v. Panics on double resolution.
func (p *Promise[V]) Complete(v V) {
	if !p.state.CompareAndSwap(promisePending, promiseWriting) {
		panic("seq: promise resolved twice")
	}
	p.value = v
	p.state.Store(promiseResolved)
}

// Fail rejects the promise with err. Panics on double resolution.
func (p *Promise[V]) Fail(err error) {
	if !p.state.CompareAndSwap(promisePending, promiseWriting) {
		panic("seq: promise resolved twice")
	}
	p.err = err
	p.state.Store(promiseResolved)
}

// Poll implements Deferred.
func (p *Promise[V]) Poll() (V, error) {
	if p.state.Load() != promiseResolved {
		var zero V
		return zero, iox.ErrWouldBlock
	}
	return p.value, p.err
}
