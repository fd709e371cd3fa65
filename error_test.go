// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/kont"
)

func TestFromEffErrorSuccess(t *testing.T) {
	rt := newRuntime(t, coop.Config{})
	body := coop.AwaitBind(coop.Ready(4), func(n int) kont.Eff[int] {
		return kont.Pure(n * 2)
	})

	result, err := coop.BlockOn(rt, coop.FromEffError[string](body))
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	if v, _ := result.GetRight(); v != 8 {
		t.Fatalf("got %d, want 8", v)
	}
}

func TestFromEffErrorThrow(t *testing.T) {
	rt := newRuntime(t, coop.Config{})
	body := coop.AwaitThen(coop.YieldNow(),
		kont.ThrowError[string, int]("boom"),
	)

	result, err := coop.BlockOn(rt, coop.FromEffError[string](body))
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if !result.IsLeft() {
		t.Fatalf("expected Left, got Right")
	}
	if e, _ := result.GetLeft(); e != "boom" {
		t.Fatalf("got %q, want %q", e, "boom")
	}
}

func TestFromEffErrorCatch(t *testing.T) {
	rt := newRuntime(t, coop.Config{})
	body := kont.CatchError[string](
		kont.ThrowError[string, string]("fail"),
		func(e string) kont.Eff[string] {
			return kont.Pure("caught: " + e)
		},
	)

	result, err := coop.BlockOn(rt, coop.FromEffError[string](body))
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v, ok := result.GetRight(); !ok || v != "caught: fail" {
		t.Fatalf("got %v, want Right(caught: fail)", result)
	}
}

func TestFromExprErrorFutureFailure(t *testing.T) {
	want := errors.New("broken")
	body := coop.ExprAwaitDone[int](coop.FutureFunc[int](func(*coop.Context) (int, error) {
		return 0, want
	}))
	_, err := coop.FromExprError[string](body).Poll(coop.NewContext(coop.NoopWaker()))
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestStepErrorThrowStepping(t *testing.T) {
	body := coop.ExprAwaitThen(coop.Ready(1), kont.ExprThrowError[string, int]("step-boom"))

	result, susp := coop.StepError[string](body)
	cx := coop.NewContext(coop.NoopWaker())
	for susp != nil {
		var err error
		result, susp, err = coop.AdvanceError[string](cx, susp)
		if err != nil {
			t.Fatalf("AdvanceError: %v", err)
		}
	}
	if e, ok := result.GetLeft(); !ok || e != "step-boom" {
		t.Fatalf("got %v, want Left(step-boom)", result)
	}
}

func TestLoopWithError(t *testing.T) {
	rt := newRuntime(t, coop.Config{Budget: 3})
	body := coop.Loop(0, func(i int) kont.Eff[kont.Either[int, string]] {
		if i == 20 {
			return kont.ThrowError[string, kont.Either[int, string]]("limit")
		}
		return kont.Pure(kont.Left[int, string](i + 1))
	})

	result, err := coop.BlockOn(rt, coop.FromEffError[string](body))
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if e, ok := result.GetLeft(); !ok || e != "limit" {
		t.Fatalf("got %v, want Left(limit)", result)
	}
}

func TestAdvanceErrorUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	_, susp := coop.StepError[string](kont.ExprPerform(bogus{}))
	if susp == nil {
		t.Fatal("expected suspension")
	}
	mustPanic(t, "coop: unhandled effect in AdvanceError", func() {
		coop.AdvanceError[string](coop.NewContext(coop.NoopWaker()), susp)
	})
}
