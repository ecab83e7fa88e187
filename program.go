// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq

import (
	"time"

	"code.hybscloud.com/kont"
)

// rawPull is the type-erased pull result flowing between stages.
// Completion results (done with a terminal value) bypass every stage.
type rawPull struct {
	value kont.Erased
	ret   kont.Erased
	done  bool
}

// outcomeKind tags the result of evaluating one stage on one item.
type outcomeKind uint8

const (
	outEmit outcomeKind = iota // continue with outcome.value
	outSkip                    // discard the item, re-pull the root
	outStop                    // latch the pipeline done
)

// outcome is the tagged stage result. Skip and stop are data, not
// control-flow exceptions; the pump loops consume them directly.
type outcome struct {
	kind  outcomeKind
	value kont.Erased
}

// stage is one executable operator: the descriptor's behavior plus this
// pipeline's private mutable state.
type stage struct {
	kind      opKind
	fn        func(kont.Erased) kont.Erased
	pred      func(kont.Erased) bool
	pause     time.Duration
	await     func(kont.Erased) func() (kont.Erased, error)
	remaining int  // opSkip, opTake
	skipping  bool // opSkipWhile
	taking    bool // opTakeWhile, opTakeUntil
}

// program is one executable pipeline: forward-ordered stages over the
// root pull, owned exclusively by a single iterator.
type program struct {
	next   func() (rawPull, error)
	poll   func() (rawPull, error)
	stages []stage
}

// build reverses the descriptor chain once into forward stage order,
// allocating fresh operator state. Building twice from the same chain
// yields independent pipelines.
func build(tail *node) *program {
	depth := 0
	for n := tail; n.kind != opRoot; n = n.prev {
		depth++
	}
	p := &program{stages: make([]stage, depth)}
	i := depth
	n := tail
	for ; n.kind != opRoot; n = n.prev {
		i--
		p.stages[i] = stage{
			kind:      n.kind,
			fn:        n.fn,
			pred:      n.pred,
			pause:     n.pause,
			await:     n.await,
			remaining: n.count,
			skipping:  true,
			taking:    true,
		}
	}
	p.next = n.next
	p.poll = n.poll
	return p
}

// eval applies one synchronous stage to one item. Await and Delay
// stages never reach eval: the asynchronous world performs them as
// kont effect operations and the synchronous world rejects them at
// build time.
func (st *stage) eval(v kont.Erased) outcome {
	switch st.kind {
	case opMap:
		return outcome{kind: outEmit, value: st.fn(v)}
	case opFilter:
		if st.pred(v) {
			return outcome{kind: outEmit, value: v}
		}
		return outcome{kind: outSkip}
	case opSkip:
		if st.remaining > 0 {
			st.remaining--
			return outcome{kind: outSkip}
		}
		return outcome{kind: outEmit, value: v}
	case opSkipWhile:
		if st.skipping && st.pred(v) {
			return outcome{kind: outSkip}
		}
		st.skipping = false
		return outcome{kind: outEmit, value: v}
	case opTake:
		if st.remaining <= 0 {
			return outcome{kind: outStop}
		}
		st.remaining--
		return outcome{kind: outEmit, value: v}
	case opTakeWhile:
		if st.taking && st.pred(v) {
			return outcome{kind: outEmit, value: v}
		}
		st.taking = false
		return outcome{kind: outStop}
	case opTakeUntil:
		if !st.taking {
			return outcome{kind: outStop}
		}
		if st.pred(v) {
			st.taking = false
		}
		return outcome{kind: outEmit, value: v}
	}
	panic("seq: effectful stage in synchronous eval")
}
