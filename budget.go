// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"strconv"

	"code.hybscloud.com/iox"
)

// DefaultBudget is the number of poll units granted per top-level poll.
const DefaultBudget = 128

// Budget is the remaining number of poll units a computation may consume
// before it is forced to yield. The zero value is unconstrained.
type Budget struct {
	n           uint8
	constrained bool
}

// NewBudget returns a budget of n units.
func NewBudget(n uint8) Budget {
	return Budget{n: n, constrained: true}
}

// UnconstrainedBudget returns a budget that never runs out.
func UnconstrainedBudget() Budget {
	return Budget{}
}

// IsUnconstrained reports whether b has no limit.
func (b Budget) IsUnconstrained() bool {
	return !b.constrained
}

// Remaining returns the units left. ok is false for an unconstrained budget.
func (b Budget) Remaining() (n uint8, ok bool) {
	return b.n, b.constrained
}

func (b Budget) String() string {
	if !b.constrained {
		return "unconstrained"
	}
	return strconv.Itoa(int(b.n))
}

// PollProceed consumes one unit of cx's budget.
//
// It returns nil when the caller may continue. When the budget is exhausted
// it wakes cx's waker and returns iox.ErrWouldBlock; the caller must return
// that error from its Poll so the scheduler can service other tasks. The
// computation is polled again with a fresh budget.
func PollProceed(cx *Context) error {
	if !cx.budget.constrained {
		return nil
	}
	if cx.budget.n > 0 {
		cx.budget.n--
		return nil
	}
	cx.Waker().Wake()
	return iox.ErrWouldBlock
}

type unconstrained[T any] struct {
	inner Future[T]
}

func (u unconstrained[T]) Poll(cx *Context) (T, error) {
	saved := cx.budget
	cx.budget = UnconstrainedBudget()
	defer func() { cx.budget = saved }()
	return u.inner.Poll(cx)
}

// Unconstrained returns a future that polls f with no budget limit.
func Unconstrained[T any](f Future[T]) Future[T] {
	return unconstrained[T]{inner: f}
}
