// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// AwaitBind waits for f and passes its value to k.
// Fuses Perform(Await[T]{Future: f}) + Bind.
func AwaitBind[T, B any](f Future[T], k func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Await[T]{Future: f}), k)
}

// AwaitThen waits for f, discards its value and continues with next.
// Fuses Perform(Await[T]{Future: f}) + Then.
func AwaitThen[T, B any](f Future[T], next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Await[T]{Future: f}), next)
}

// AwaitDone waits for f and returns its value.
func AwaitDone[T any](f Future[T]) kont.Eff[T] {
	return kont.Perform(Await[T]{Future: f})
}

// ProceedThen consumes one budget unit and continues with next.
// Fuses Perform(Proceed{}) + Then.
func ProceedThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Proceed{}), next)
}

// JoinBind waits for a spawned task and passes its output to k.
// The JoinHandle is dropped once the output has been taken.
func JoinBind[T, B any](j *JoinHandle[T], k func(T) kont.Eff[B]) kont.Eff[B] {
	return AwaitBind[T](joinOnce[T]{j}, k)
}

type joinOnce[T any] struct {
	j *JoinHandle[T]
}

func (o joinOnce[T]) Poll(cx *Context) (T, error) {
	v, err := o.j.Poll(cx)
	if !isWouldBlock(err) {
		o.j.Drop()
	}
	return v, err
}
