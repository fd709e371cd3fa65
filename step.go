// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a task body until its first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](body kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(body)
}

// Advance dispatches the suspended operation with cx.
//
// On success (nil error), the suspension is consumed and the body advances
// to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed; cx's waker has been
// arranged to fire when a retry can make progress.
// On any other error, the suspension is unconsumed and the caller decides
// whether to discard it.
func Advance[R any](cx *Context, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	op, ok := susp.Op().(pollDispatcher)
	if !ok {
		panic("coop: unhandled effect in Advance")
	}
	v, err := op.DispatchPoll(cx)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
