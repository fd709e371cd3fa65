// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprProceed     kont.Erased = Proceed{}
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

func awaitBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	k := data.(func(T) kont.Expr[B])
	result := k(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprAwaitBind waits for f and passes its value to k.
// Fuses ExprPerform(Await[T]{Future: f}) + ExprBind.
func ExprAwaitBind[T, B any](f Future[T], k func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = k
	bf.Unwind = awaitBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await[T]{Future: f}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprAwaitThen waits for f, discards its value and continues with next.
// Fuses ExprPerform(Await[T]{Future: f}) + ExprThen.
func ExprAwaitThen[T, B any](f Future[T], next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await[T]{Future: f}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprAwaitDone waits for f and returns its value.
func ExprAwaitDone[T any](f Future[T]) kont.Expr[T] {
	return kont.ExprPerform(Await[T]{Future: f})
}

func proceedLazyUnwind[B any](data, _, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	k := data.(func() kont.Expr[B])
	result := k()
	return kont.Erased(result.Value), result.Frame
}

// exprProceedThen consumes one budget unit and then builds the rest of the
// program with k. Building lazily keeps long loops from recursing eagerly.
func exprProceedThen[B any](k func() kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = k
	bf.Unwind = proceedLazyUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprProceed
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
