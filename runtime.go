// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// Runtime is a single-threaded cooperative executor.
//
// Tasks run only while some goroutine is inside BlockOn; that goroutine is
// the runtime's worker. Tasks may be spawned and woken from any goroutine.
type Runtime struct {
	sched *scheduler
}

// New returns a runtime configured by cfg.
func New(cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runtime{sched: newScheduler(cfg.withDefaults())}, nil
}

// Handle returns a handle for spawning onto rt from any goroutine.
func (rt *Runtime) Handle() *Handle {
	return &Handle{sched: rt.sched}
}

// Stats returns a snapshot of rt's counters.
func (rt *Runtime) Stats() Stats {
	return rt.sched.snapshot()
}

// Close cancels every task that has not completed; their JoinHandles report
// a cancelled *JoinError. Later spawns are cancelled immediately and BlockOn
// returns ErrRuntimeClosed. Close must not be called from inside BlockOn.
// It is idempotent.
func (rt *Runtime) Close() {
	rt.sched.close()
}

func (rt *Runtime) spawn(t *header) {
	rt.sched.spawnRemote(t)
}

// Handle spawns onto a Runtime. It may be copied and used from any goroutine.
type Handle struct {
	sched *scheduler
}

func (h *Handle) spawn(t *header) {
	h.sched.spawnRemote(t)
}

// Spawn starts f as a new task and returns its JoinHandle.
//
// Spawning through a *Context places the task on the local run queue of the
// scheduler running the current poll. Spawning through a *Runtime or *Handle
// submits it through the injection queue.
func Spawn[T any](sp Spawner, f Future[T]) *JoinHandle[T] {
	c := newCell(f)
	id := c.header.id
	sp.spawn(&c.header)
	return &JoinHandle[T]{cell: c, id: id}
}

// BlockOn drives f to completion on the calling goroutine, running spawned
// tasks while f is not ready, and returns f's result.
//
// BlockOn panics if rt is already running. A panic in f propagates.
func BlockOn[T any](rt *Runtime, f Future[T]) (T, error) {
	var (
		v   T
		err error
	)
	if rt.sched.closed.Load() != 0 {
		return v, ErrRuntimeClosed
	}
	perr := rt.sched.blockOn(func(cx *Context) bool {
		v, err = f.Poll(cx)
		return isWouldBlock(err)
	})
	if perr != nil {
		var zero T
		return zero, perr
	}
	return v, err
}
