// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// streamContext holds the root pull of one asynchronous pipeline, the
// target that effect operations dispatch against.
type streamContext struct {
	poll func() (rawPull, error)
}

// streamDispatcher is the structural interface for pipeline effect
// operations. DispatchStream is non-blocking: it returns
// iox.ErrWouldBlock at the suspension boundary when the operation
// cannot make progress yet; any other error fails the current pull.
type streamDispatcher interface {
	DispatchStream(ctx *streamContext) (kont.Resumed, error)
}

// pullOp is the effect operation asking the root source for the next
// raw item.
type pullOp struct {
	kont.Phantom[rawPull]
}

// DispatchStream pulls the root.
// Non-blocking: returns iox.ErrWouldBlock while the source has no item.
func (pullOp) DispatchStream(ctx *streamContext) (kont.Resumed, error) {
	raw, err := ctx.poll()
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// awaitOp is the effect operation resolving one Deferred item.
// poll is armed per item by the Await descriptor.
type awaitOp struct {
	kont.Phantom[kont.Erased]
	poll func() (kont.Erased, error)
}

// DispatchStream polls the deferred value.
// Non-blocking: returns iox.ErrWouldBlock while the value is pending.
// A rejection propagates as the pull's error.
func (op *awaitOp) DispatchStream(*streamContext) (kont.Resumed, error) {
	v, err := op.poll()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// timerOp is the effect operation suspending one item for a duration.
// The deadline is armed on first dispatch, so time starts counting when
// the driver first polls the suspension.
type timerOp struct {
	kont.Phantom[struct{}]
	pause    time.Duration
	deadline time.Time
}

// DispatchStream checks the deadline.
// Non-blocking: returns iox.ErrWouldBlock until the deadline passes.
func (op *timerOp) DispatchStream(*streamContext) (kont.Resumed, error) {
	if op.deadline.IsZero() {
		op.deadline = time.Now().Add(op.pause)
	}
	if time.Now().Before(op.deadline) {
		return nil, iox.ErrWouldBlock
	}
	return struct{}{}, nil
}

// pullEff builds the kont computation for one pull: perform the root
// pull, fold the item through every stage, restart on a skip outcome,
// and carry completion results straight through.
func pullEff(p *program) kont.Eff[rawPull] {
	return kont.Bind(kont.Perform(pullOp{}), func(raw rawPull) kont.Eff[rawPull] {
		if raw.done {
			return kont.Pure(raw)
		}
		return applyFrom(p, 0, raw.value)
	})
}

// applyFrom folds an item through stages[i:]. Pure stages evaluate
// inline; Await and Delay suspend via Perform. Recursion happens only
// inside Bind continuations, which the kont trampoline evaluates
// iteratively, so stack depth stays flat across items, stages, and
// skip restarts.
func applyFrom(p *program, i int, v kont.Erased) kont.Eff[rawPull] {
	for ; i < len(p.stages); i++ {
		st := &p.stages[i]
		switch st.kind {
		case opAwait:
			op := &awaitOp{poll: st.await(v)}
			next := i + 1
			return kont.Bind(kont.Perform(op), func(rv kont.Erased) kont.Eff[rawPull] {
				return applyFrom(p, next, rv)
			})
		case opDelay:
			op := &timerOp{pause: st.pause}
			next := i + 1
			cur := v
			return kont.Bind(kont.Perform(op), func(struct{}) kont.Eff[rawPull] {
				return applyFrom(p, next, cur)
			})
		default:
			out := st.eval(v)
			switch out.kind {
			case outEmit:
				v = out.value
			case outSkip:
				return pullEff(p)
			case outStop:
				return kont.Pure(rawPull{done: true})
			}
		}
	}
	return kont.Pure(rawPull{value: v})
}
