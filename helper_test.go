// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"strings"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// newRuntime returns a runtime closed when the test ends.
func newRuntime(tb testing.TB, cfg coop.Config) *coop.Runtime {
	tb.Helper()
	rt, err := coop.New(cfg)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	tb.Cleanup(rt.Close)
	return rt
}

// execExpr drives a task body to completion on cx via Step+Advance loop.
// Retries on iox.ErrWouldBlock; the body's futures must make progress on
// their own.
func execExpr[R any](cx *coop.Context, body kont.Expr[R]) R {
	result, susp := coop.Step(body)
	for susp != nil {
		var err error
		result, susp, err = coop.Advance(cx, susp)
		if err != nil && !iox.IsWouldBlock(err) {
			panic(err)
		}
	}
	return result
}

// pending never becomes ready and never arranges a wake.
func pending[T any]() coop.Future[T] {
	return coop.FutureFunc[T](func(*coop.Context) (T, error) {
		var zero T
		return zero, iox.ErrWouldBlock
	})
}

// countingWaker counts wakes.
type countingWaker struct {
	n atomix.Int64
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func (w *countingWaker) count() int64 { return w.n.Load() }

// signal is a one-shot future raised from any goroutine.
type signal struct {
	set atomix.Bool
	w   coop.AtomicWaker
}

func (s *signal) Poll(cx *coop.Context) (struct{}, error) {
	if s.set.LoadAcquire() {
		return struct{}{}, nil
	}
	s.w.Register(cx.Waker())
	if s.set.LoadAcquire() {
		return struct{}{}, nil
	}
	return struct{}{}, iox.ErrWouldBlock
}

func (s *signal) raise() {
	s.set.StoreRelease(true)
	s.w.Wake()
}

// mustPanic runs f and checks that it panics with a message containing want.
func mustPanic(tb testing.TB, want string, f func()) {
	tb.Helper()
	defer func() {
		tb.Helper()
		r := recover()
		if r == nil {
			tb.Fatalf("expected panic containing %q", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			tb.Fatalf("unexpected panic: %v", r)
		}
	}()
	f()
}

type kontStep = kont.Eff[kont.Either[int, int]]

// stepTo advances i towards n.
func stepTo(i, n int) kontStep {
	if i == n {
		return kont.Pure(kont.Right[int, int](i))
	}
	return kont.Pure(kont.Left[int, int](i + 1))
}

// count loops n times through the scheduler's budget and returns n.
func count(n int) kont.Eff[int] {
	return coop.Loop(0, func(i int) kontStep { return stepTo(i, n) })
}
