// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/iox"

// Future is a suspendable computation producing a T.
//
// Poll advances the computation one step and never blocks:
//   - (v, nil): ready with v.
//   - (_, iox.ErrWouldBlock): not ready. Before returning it the future must
//     have arranged for cx.Waker() to be woken when progress is possible.
//   - (_, err): completed with failure err.
//
// Polling a future again after it reported ready or failure is undefined
// unless its documentation says otherwise.
type Future[T any] interface {
	Poll(cx *Context) (T, error)
}

// FutureFunc adapts a function to Future.
type FutureFunc[T any] func(cx *Context) (T, error)

// Poll calls f(cx).
func (f FutureFunc[T]) Poll(cx *Context) (T, error) {
	return f(cx)
}

type readyFuture[T any] struct {
	v T
}

func (f readyFuture[T]) Poll(*Context) (T, error) { return f.v, nil }

// Ready returns a future that is immediately ready with v.
func Ready[T any](v T) Future[T] {
	return readyFuture[T]{v: v}
}

type yieldNow struct {
	yielded bool
}

func (y *yieldNow) Poll(cx *Context) (struct{}, error) {
	if y.yielded {
		return struct{}{}, nil
	}
	y.yielded = true
	cx.Waker().Wake()
	return struct{}{}, iox.ErrWouldBlock
}

// YieldNow returns a future that reports not-ready exactly once,
// waking itself so the scheduler runs other work in between.
func YieldNow() Future[struct{}] {
	return &yieldNow{}
}

// Option carries an optional value. A receive at end of stream yields
// an Option with Ok == false.
type Option[T any] struct {
	Value T
	Ok    bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Ok: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Ok
}

func isWouldBlock(err error) bool {
	return err != nil && iox.IsWouldBlock(err)
}
