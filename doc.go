// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seq provides lazily-evaluated, pull-based sequence pipelines
// built from composable operators, with asynchronous execution via
// algebraic effects on [code.hybscloud.com/kont].
//
// A pipeline is declared as an immutable chain of operator descriptors
// over a source; no work happens until a consumer requests values one at
// a time. Pull-driven evaluation processes unbounded sources without
// buffering, and call-stack depth never grows with the number of items
// processed or the number of operators attached.
//
// # Architecture
//
//   - Chains: [New] (or [NewPoll]) wraps a source; each operator call
//     returns a new [Chain] wrapping the previous one. A chain is a
//     reusable template: every [Chain.Iter] or [Chain.AsyncIter] builds
//     an independent pipeline with fresh operator state.
//   - Synchronous world: [Iterator.Next] pumps items through the stage
//     list with an explicit loop. Skip outcomes re-pull the source; stop
//     outcomes latch the pipeline done.
//   - Asynchronous world: each pull is a kont computation. Source pulls,
//     [Await] and [Chain.Delay] are effect operations dispatched against
//     the pipeline; dispatch is non-blocking and returns
//     [code.hybscloud.com/iox.ErrWouldBlock] until progress is possible.
//   - Error Handling: source and deferred-value failures surface to the
//     caller of the pull that triggered them, short-circuited through
//     [code.hybscloud.com/kont.Either]; the pipeline is not latched done
//     by a failed pull.
//
// # API Topologies
//
//   - Operators: [Chain.Map], [Chain.Select], [Chain.Filter],
//     [Chain.Where], [Chain.Skip], [Chain.SkipWhile], [Chain.SkipUntil],
//     [Chain.Take], [Chain.TakeWhile], [Chain.TakeUntil], [Chain.Delay].
//     Type-changing operators are package functions: [Map], [Await].
//   - Blocking consumption: [Iterator.Next], [AsyncIterator.Next],
//     [AsyncIterator.ForEach], [Iterator.Collect], and [Iterator.Seq]
//     for range-over-func loops.
//   - Stepping: [AsyncIterator.Step] and [AsyncIterator.Advance] evaluate
//     one effect at a time, making pipelines easy to integrate with a
//     proactor loop.
//   - Feeding: [Queue] bridges a producer goroutine into a pipeline over
//     a bounded lock-free SPSC queue from [code.hybscloud.com/lfq];
//     [Chan] adapts a Go channel; [Promise] carries a single
//     asynchronous value for [Await].
//
// # Example
//
//	src := seq.SliceSource([]int{1, 2, 3, 4, 5})
//	it := seq.New(src).
//		Filter(func(n int) bool { return n%2 == 0 }).
//		Map(func(n int) int { return n * 4 }).
//		Iter()
//	for {
//		p, err := it.Next()
//		if err != nil || p.Done {
//			break
//		}
//		fmt.Println(p.Value) // 8, 16
//	}
package seq
