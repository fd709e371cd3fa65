// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world task body to Expr-world.
// The resulting Expr can be stepped with Step and Advance, or turned into
// a future with FromExpr.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world task body to Cont-world.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}

// FromEff returns a future evaluating a Cont-world task body.
func FromEff[R any](body kont.Eff[R]) Future[R] {
	return FromExpr(Reify(body))
}

// FromExpr returns a future evaluating an Expr-world task body.
//
// Each poll advances the body through as many effects as are ready. The
// first effect reporting iox.ErrWouldBlock ends the poll with the
// suspension kept for the next one. Any other error discards the
// suspension and becomes the future's failure.
func FromExpr[R any](body kont.Expr[R]) Future[R] {
	return &exprFuture[R]{body: body}
}

type exprFuture[R any] struct {
	body    kont.Expr[R]
	susp    *kont.Suspension[R]
	started bool
	done    bool
}

func (f *exprFuture[R]) Poll(cx *Context) (R, error) {
	var zero R
	if f.done {
		panic("coop: effect future polled after completion")
	}
	if !f.started {
		f.started = true
		result, susp := Step(f.body)
		f.body = kont.Expr[R]{}
		if susp == nil {
			f.done = true
			return result, nil
		}
		f.susp = susp
	}
	for {
		result, next, err := Advance(cx, f.susp)
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
