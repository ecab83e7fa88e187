// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Pending is one suspended asynchronous pull, paused at an effect
// operation that could not yet make progress. Affine: once Advance
// resumes or discards it, the handle must not be reused.
type Pending[V, R any] struct {
	susp *kont.Suspension[kont.Either[error, rawPull]]
}

// Step begins one pull, evaluating until the first effect suspension.
// Returns (result, nil, nil) if the pull completed without suspending,
// or a Pending handle to drive with Advance. Makes pipelines easy to
// integrate with a proactor loop.
func (it *AsyncIterator[V, R]) Step() (Pull[V, R], *Pending[V, R], error) {
	if it.done {
		return Pull[V, R]{Done: true}, nil, nil
	}
	result, susp := kont.StepExpr(kont.Reify(it.pull()))
	if susp != nil {
		return Pull[V, R]{}, &Pending[V, R]{susp: susp}, nil
	}
	p, err := it.seal(result)
	return p, nil, err
}

// Advance dispatches the pending operation once, without blocking.
//
// On iox.ErrWouldBlock the suspension is unconsumed: the same Pending
// is returned and may be retried after the source or deferred value
// makes progress. Any other dispatch error discards the suspension and
// fails the pull without latching the pipeline done.
//
// On success the pull advances to its next suspension or to completion.
func (it *AsyncIterator[V, R]) Advance(pd *Pending[V, R]) (Pull[V, R], *Pending[V, R], error) {
	sop, ok := pd.susp.Op().(streamDispatcher)
	if !ok {
		panic("seq: unhandled effect in Advance")
	}
	v, err := sop.DispatchStream(&it.ctx)
	if err != nil {
		if iox.IsWouldBlock(err) {
			return Pull[V, R]{}, pd, err
		}
		pd.susp.Discard()
		return Pull[V, R]{}, nil, err
	}
	result, next := pd.susp.Resume(v)
	if next != nil {
		return Pull[V, R]{}, &Pending[V, R]{susp: next}, nil
	}
	p, serr := it.seal(result)
	return p, nil, serr
}
