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

func TestReifyContToExpr(t *testing.T) {
	// Cont body → Reify → Step+Advance
	cont := coop.AwaitBind(coop.Ready(20), func(n int) kont.Eff[int] {
		return coop.ProceedThen(kont.Pure(n + 22))
	})
	got := execExpr(coop.NewContext(coop.NoopWaker()), coop.Reify(cont))
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestReflectExprToCont(t *testing.T) {
	// Expr body → Reflect → Exec
	expr := coop.ExprAwaitBind(coop.Ready("go"), func(s string) kont.Expr[string] {
		return kont.ExprReturn(s + "pher")
	})
	rt := newRuntime(t, coop.Config{})
	got, err := coop.Exec(rt, coop.Reflect(expr))
	if err != nil || got != "gopher" {
		t.Fatalf("got (%q, %v), want (gopher, nil)", got, err)
	}
}

func TestFromExprResumesAfterPending(t *testing.T) {
	var sig signal
	body := coop.ExprAwaitThen(&sig, kont.ExprReturn("after"))
	f := coop.FromExpr(body)

	var w countingWaker
	cx := coop.NewContext(coop.NewWaker(&w))
	if _, err := f.Poll(cx); !iox.IsWouldBlock(err) {
		t.Fatalf("first poll got %v, want ErrWouldBlock", err)
	}
	sig.raise()
	if w.count() != 1 {
		t.Fatalf("woke %d times, want 1", w.count())
	}
	v, err := f.Poll(cx)
	if err != nil || v != "after" {
		t.Fatalf("got (%q, %v), want (after, nil)", v, err)
	}
	mustPanic(t, "polled after completion", func() { f.Poll(cx) })
}

func TestFromExprFailure(t *testing.T) {
	want := errors.New("refused")
	body := coop.ExprAwaitDone[int](coop.FutureFunc[int](func(*coop.Context) (int, error) {
		return 0, want
	}))
	_, err := coop.FromExpr(body).Poll(coop.NewContext(coop.NoopWaker()))
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestExecJoinsSpawnedTasks(t *testing.T) {
	rt := newRuntime(t, coop.Config{})

	a := coop.Spawn(rt, coop.FromEff(count(30)))
	b := coop.Spawn(rt, coop.FromEff(count(12)))
	body := coop.JoinBind(a, func(x int) kont.Eff[int] {
		return coop.JoinBind(b, func(y int) kont.Eff[int] {
			return kont.Pure(x + y)
		})
	})
	got, err := coop.Exec(rt, body)
	if err != nil || got != 42 {
		t.Fatalf("got (%d, %v), want (42, nil)", got, err)
	}
	if st := rt.Stats(); st.Released != 2 {
		t.Fatalf("released got %d, want 2", st.Released)
	}
}

func TestExecExpr(t *testing.T) {
	rt := newRuntime(t, coop.Config{})
	body := coop.ExprAwaitBind(coop.YieldNow(), func(struct{}) kont.Expr[int] {
		return kont.ExprReturn(9)
	})
	got, err := coop.ExecExpr(rt, body)
	if err != nil || got != 9 {
		t.Fatalf("got (%d, %v), want (9, nil)", got, err)
	}
}
