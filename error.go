// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// errorDispatcher is the structural interface of kont's Error effect
// operations for error type E.
type errorDispatcher[E any] interface {
	DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
}

// StepError evaluates a task body with error support until the first
// effect suspension. Returns (Either[E, R], nil) on completion or Throw,
// or (zero, suspension) if pending.
func StepError[E, R any](body kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(body, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation with cx.
// Await and Proceed are non-blocking (iox.ErrWouldBlock). Error ops are
// eager: Throw discards the suspension and returns Left.
func AdvanceError[E, R any](cx *Context, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	// Poll ops: non-blocking dispatch
	if op, ok := susp.Op().(pollDispatcher); ok {
		v, err := op.DispatchPoll(cx)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(errorDispatcher[E]); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("coop: unhandled effect in AdvanceError")
}

// FromExprError returns a future evaluating a task body that may Throw.
// The future's value is Right on success and Left with the thrown value.
// Non-WouldBlock errors from awaited futures still fail the future.
func FromExprError[E, R any](body kont.Expr[R]) Future[kont.Either[E, R]] {
	return &errorFuture[E, R]{body: body}
}

// FromEffError is FromExprError for Cont-world bodies.
func FromEffError[E, R any](body kont.Eff[R]) Future[kont.Either[E, R]] {
	return FromExprError[E](Reify(body))
}

type errorFuture[E, R any] struct {
	body    kont.Expr[R]
	susp    *kont.Suspension[kont.Either[E, R]]
	started bool
	done    bool
}

func (f *errorFuture[E, R]) Poll(cx *Context) (kont.Either[E, R], error) {
	var zero kont.Either[E, R]
	if f.done {
		panic("coop: effect future polled after completion")
	}
	if !f.started {
		f.started = true
		result, susp := StepError[E](f.body)
		f.body = kont.Expr[R]{}
		if susp == nil {
			f.done = true
			return result, nil
		}
		f.susp = susp
	}
	for {
		result, next, err := AdvanceError(cx, f.susp)
		if err != nil {
			if isWouldBlock(err) {
				return zero, err
			}
			f.susp.Discard()
			f.susp, f.done = nil, true
			return zero, err
		}
		if next == nil {
			f.susp, f.done = nil, true
			return result, nil
		}
		f.susp = next
	}
}
