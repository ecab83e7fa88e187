// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seq_test

import (
	"runtime"
	"slices"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/seq"
)

func TestQueueBridge(t *testing.T) {
	skipRace(t)
	q := seq.NewQueue[int, string](4)
	go func() {
		for v := 1; v <= 10; v++ {
			for q.Push(v) != nil {
				runtime.Gosched()
			}
		}
		q.Close("flushed")
	}()

	items, ret, err := seq.NewPoll[int, string](q).
		Filter(even).
		AsyncIter().Collect()
	if err != nil || !slices.Equal(items, []int{2, 4, 6, 8, 10}) || ret != "flushed" {
		t.Fatalf("got (%v, %q, %v)", items, ret, err)
	}
}

func TestQueueBackpressure(t *testing.T) {
	skipRace(t)
	q := seq.NewQueue[int, string](2)
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(2); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(3); !iox.IsWouldBlock(err) {
		t.Fatalf("err got %v, want would-block", err)
	}
}

func TestQueueDrainsBeforeDone(t *testing.T) {
	skipRace(t)
	q := seq.NewQueue[int, string](4)
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(2); err != nil {
		t.Fatal(err)
	}
	q.Close("end")

	it := seq.NewPoll[int, string](q).AsyncIter()
	items, ret, err := it.Collect()
	if err != nil || !slices.Equal(items, []int{1, 2}) || ret != "end" {
		t.Fatalf("got (%v, %q, %v)", items, ret, err)
	}
}
