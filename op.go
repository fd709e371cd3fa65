// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Await is the effect operation for waiting on a future.
// Perform(Await[T]{Future: f}) suspends the program until f is ready and
// resumes it with f's value.
//
// While f is not ready the same operation is dispatched again on the next
// poll, so f must keep its own progress (typically a pointer type).
type Await[T any] struct {
	kont.Phantom[T]
	Future Future[T]
}

// DispatchPoll polls the awaited future once.
// Non-blocking: returns iox.ErrWouldBlock while the future is not ready.
func (a Await[T]) DispatchPoll(cx *Context) (kont.Resumed, error) {
	v, err := a.Future.Poll(cx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Proceed is the effect operation for consuming one unit of budget.
// Perform(Proceed{}) yields to the scheduler once the budget of the
// current poll is exhausted.
type Proceed struct {
	kont.Phantom[struct{}]
}

// DispatchPoll consumes one budget unit.
// Non-blocking: returns iox.ErrWouldBlock when the budget is exhausted.
func (Proceed) DispatchPoll(cx *Context) (kont.Resumed, error) {
	if err := PollProceed(cx); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// pollDispatcher is the structural interface for effects a task body may
// perform. DispatchPoll is non-blocking: it returns iox.ErrWouldBlock when
// the operation cannot complete yet, after arranging a wake through cx.
type pollDispatcher interface {
	DispatchPoll(cx *Context) (kont.Resumed, error)
}
