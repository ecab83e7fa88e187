// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq_test

import (
	"errors"

	"code.hybscloud.com/seq"
)

var errBoom = errors.New("boom")

// numbers yields 1..5 in order, then completes with terminal value ret.
func numbers(ret string) seq.Source[int, string] {
	i := 0
	return seq.SourceFunc[int, string](func() (seq.Pull[int, string], error) {
		if i >= 5 {
			return seq.Pull[int, string]{Return: ret, Done: true}, nil
		}
		i++
		return seq.Pull[int, string]{Value: i}, nil
	})
}

// deferredNumbers yields already-resolved deferred values 1..5, then
// completes with terminal value ret.
func deferredNumbers(ret string) seq.Source[seq.Deferred[int], string] {
	i := 0
	return seq.SourceFunc[seq.Deferred[int], string](func() (seq.Pull[seq.Deferred[int], string], error) {
		if i >= 5 {
			return seq.Pull[seq.Deferred[int], string]{Return: ret, Done: true}, nil
		}
		i++
		return seq.Pull[seq.Deferred[int], string]{Value: seq.Resolved(i)}, nil
	})
}

func even(n int) bool { return n%2 == 0 }

// stepAll drives an asynchronous iterator to one result via the
// Step+Advance loop, retrying on iox.ErrWouldBlock.
func stepAll[V, R any](it *seq.AsyncIterator[V, R]) (seq.Pull[V, R], error) {
	p, pd, err := it.Step()
	for pd != nil {
		p, pd, err = it.Advance(pd)
		if err != nil && pd != nil {
			continue
		}
	}
	return p, err
}
