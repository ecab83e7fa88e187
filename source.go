// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"iter"

	"code.hybscloud.com/iox"
)

// Pull is the result of one pull request. While the source has items,
// Value holds the next item and Done is false. On completion Done is
// true and Return holds the source's terminal value, surfaced to the
// consumer exactly once; later pulls report Done with zero values.
type Pull[V, R any] struct {
	Value  V
	Return R
	Done   bool
}

// Source is the synchronous pull protocol. Next blocks until the next
// item is available or the source completes.
type Source[V, R any] interface {
	Next() (Pull[V, R], error)
}

// PollSource is the asynchronous pull protocol. Poll is non-blocking:
// it returns iox.ErrWouldBlock while the next item is not yet
// available. Any other error is a source failure and propagates to the
// consumer of the pull that triggered it.
type PollSource[V, R any] interface {
	Poll() (Pull[V, R], error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[V, R any] func() (Pull[V, R], error)

// Next implements Source.
func (f SourceFunc[V, R]) Next() (Pull[V, R], error) { return f() }

// PollFunc adapts a function to the PollSource interface.
type PollFunc[V, R any] func() (Pull[V, R], error)

// Poll implements PollSource.
func (f PollFunc[V, R]) Poll() (Pull[V, R], error) { return f() }

// SliceSource returns a Source yielding the elements of items in order,
// with a zero terminal value.
func SliceSource[V any](items []V) Source[V, struct{}] {
	i := 0
	return SourceFunc[V, struct{}](func() (Pull[V, struct{}], error) {
		if i >= len(items) {
			return Pull[V, struct{}]{Done: true}, nil
		}
		v := items[i]
		i++
		return Pull[V, struct{}]{Value: v}, nil
	})
}

// FromSeq returns a Source yielding the values of a range-over-func
// sequence, with a zero terminal value.
func FromSeq[V any](s iter.Seq[V]) Source[V, struct{}] {
	next, stop := iter.Pull(s)
	return SourceFunc[V, struct{}](func() (Pull[V, struct{}], error) {
		v, ok := next()
		if !ok {
			stop()
			return Pull[V, struct{}]{Done: true}, nil
		}
		return Pull[V, struct{}]{Value: v}, nil
	})
}

// Chan returns a PollSource yielding values received from ch. The
// source completes with a zero terminal value when ch is closed.
// Poll returns iox.ErrWouldBlock while ch is open but empty.
func Chan[V any](ch <-chan V) PollSource[V, struct{}] {
	return PollFunc[V, struct{}](func() (Pull[V, struct{}], error) {
		select {
		case v, ok := <-ch:
			if !ok {
				return Pull[V, struct{}]{Done: true}, nil
			}
			return Pull[V, struct{}]{Value: v}, nil
		default:
			return Pull[V, struct{}]{}, iox.ErrWouldBlock
		}
	})
}
