// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

func TestStepPure(t *testing.T) {
	result, susp := coop.Step(kont.ExprReturn(5))
	if susp != nil {
		t.Fatal("pure body suspended")
	}
	if result != 5 {
		t.Fatalf("got %d, want 5", result)
	}
}

func TestStepInspectOperations(t *testing.T) {
	// susp.Op() returns the concrete Await[int], then Proceed
	body := coop.ExprAwaitBind(coop.Ready(20), func(n int) kont.Expr[int] {
		return coop.Reify(coop.ProceedThen(kont.Pure(n + 1)))
	})

	_, susp := coop.Step(body)
	if susp == nil {
		t.Fatal("expected suspension for Await")
	}
	if _, ok := susp.Op().(coop.Await[int]); !ok {
		t.Fatalf("expected Await[int], got %T", susp.Op())
	}

	cx := coop.NewContext(coop.NoopWaker())
	_, susp, err := coop.Advance(cx, susp)
	if err != nil {
		t.Fatalf("Advance Await error: %v", err)
	}
	if susp == nil {
		t.Fatal("expected suspension for Proceed")
	}
	if _, ok := susp.Op().(coop.Proceed); !ok {
		t.Fatalf("expected Proceed, got %T", susp.Op())
	}

	result, susp, err := coop.Advance(cx, susp)
	if err != nil {
		t.Fatalf("Advance Proceed error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected completion")
	}
	if result != 21 {
		t.Fatalf("got %d, want 21", result)
	}
}

func TestAdvanceWouldBlockKeepsSuspension(t *testing.T) {
	polls := 0
	f := coop.FutureFunc[string](func(*coop.Context) (string, error) {
		polls++
		if polls < 3 {
			return "", iox.ErrWouldBlock
		}
		return "ready", nil
	})

	_, susp := coop.Step(coop.ExprAwaitDone[string](f))
	cx := coop.NewContext(coop.NoopWaker())
	for range 2 {
		var err error
		var next *kont.Suspension[string]
		_, next, err = coop.Advance(cx, susp)
		if !iox.IsWouldBlock(err) {
			t.Fatalf("got %v, want ErrWouldBlock", err)
		}
		if next != susp {
			t.Fatal("pending Advance replaced the suspension")
		}
	}
	result, susp, err := coop.Advance(cx, susp)
	if err != nil || susp != nil || result != "ready" {
		t.Fatalf("got (%q, %v, %v), want (ready, nil, nil)", result, susp, err)
	}
}

func TestAdvanceFailureLeavesSuspension(t *testing.T) {
	want := errors.New("io failed")
	f := coop.FutureFunc[int](func(*coop.Context) (int, error) { return 0, want })

	_, susp := coop.Step(coop.ExprAwaitDone[int](f))
	_, next, err := coop.Advance(coop.NewContext(coop.NoopWaker()), susp)
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
	if next == nil {
		t.Fatal("failed Advance consumed the suspension")
	}
	next.Discard()
}

func TestAdvanceBudgetExhausted(t *testing.T) {
	var w countingWaker
	cx := coop.NewContext(coop.NewWaker(&w)).WithBudget(coop.NewBudget(0))

	_, susp := coop.Step(coop.Reify(coop.ProceedThen(kont.Pure(1))))
	_, next, err := coop.Advance(cx, susp)
	if !iox.IsWouldBlock(err) || next != susp {
		t.Fatalf("got (%v, %v), want pending Proceed", next, err)
	}
	if w.count() != 1 {
		t.Fatalf("woke %d times, want 1", w.count())
	}
}

func TestAdvanceUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	_, susp := coop.Step(kont.ExprPerform(bogus{}))
	if susp == nil {
		t.Fatal("expected suspension")
	}
	mustPanic(t, "coop: unhandled effect in Advance", func() {
		coop.Advance(coop.NewContext(coop.NoopWaker()), susp)
	})
}

func TestExecExprStepping(t *testing.T) {
	body := coop.ExprLoop(0, func(i int) kont.Expr[kont.Either[int, int]] {
		return coop.ExprAwaitBind(coop.Ready(i), func(n int) kont.Expr[kont.Either[int, int]] {
			if n == 10 {
				return kont.ExprReturn(kont.Right[int, int](n))
			}
			return kont.ExprReturn(kont.Left[int, int](n + 1))
		})
	})
	if got := execExpr(coop.NewContext(coop.NoopWaker()), body); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}
