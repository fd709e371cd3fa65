// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"code.hybscloud.com/coop"
	"code.hybscloud.com/kont"
)

// RecvBind receives the next value from rx and passes it to k.
// Fuses Perform(coop.Await{Future: rx.Recv()}) + Bind.
func RecvBind[T, B any](rx *Receiver[T], k func(coop.Option[T]) kont.Eff[B]) kont.Eff[B] {
	return coop.AwaitBind(rx.Recv(), k)
}

// ExprRecvBind receives the next value from rx and passes it to k.
// Fuses ExprPerform(coop.Await{Future: rx.Recv()}) + ExprBind.
func ExprRecvBind[T, B any](rx *Receiver[T], k func(coop.Option[T]) kont.Expr[B]) kont.Expr[B] {
	return coop.ExprAwaitBind(rx.Recv(), k)
}

// Drain receives until end of stream, folding every value into acc.
// Each value costs one budget unit, so a busy channel yields regularly.
func Drain[T, A any](rx *Receiver[T], acc A, f func(A, T) A) kont.Eff[A] {
	return coop.Loop(acc, func(a A) kont.Eff[kont.Either[A, A]] {
		return RecvBind(rx, func(o coop.Option[T]) kont.Eff[kont.Either[A, A]] {
			if !o.Ok {
				return kont.Pure(kont.Right[A, A](a))
			}
			return kont.Pure(kont.Left[A, A](f(a, o.Value)))
		})
	})
}
