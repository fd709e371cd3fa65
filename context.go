// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// Context is passed to every Poll. It carries the waker of the computation
// being polled, its remaining budget and, inside a runtime, the scheduler
// the poll runs on.
//
// A Context is only valid for the duration of the Poll it was passed to.
type Context struct {
	waker  Waker
	budget Budget
	sched  *scheduler
}

// NewContext returns a Context for polling futures by hand, outside of a
// runtime. The budget is unconstrained. Spawning from it panics.
func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

// WithBudget returns a copy of cx with budget b.
func (cx *Context) WithBudget(b Budget) *Context {
	c := *cx
	c.budget = b
	return &c
}

// Waker returns the waker of the computation being polled.
func (cx *Context) Waker() Waker {
	return cx.waker
}

// Budget returns the remaining budget of the current poll.
func (cx *Context) Budget() Budget {
	return cx.budget
}

// Spawner is where Spawn places new tasks.
// *Context spawns onto the local run queue of the scheduler running the
// current poll; *Handle and *Runtime submit through the injection queue and
// may be used from any goroutine.
type Spawner interface {
	spawn(t *header)
}

func (cx *Context) spawn(t *header) {
	if cx.sched == nil {
		panic("coop: spawn from a context outside of a runtime")
	}
	cx.sched.spawnLocal(t)
}
