// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// JoinHandle observes a spawned task and retrieves its output.
//
// A JoinHandle is itself a Future: polling it returns the task's output
// once the task completes, or iox.ErrWouldBlock while it is still running.
// The output can be taken only once; later polls return ErrOutputConsumed.
// A task that panicked or was cancelled yields a *JoinError.
//
// Call Drop once the handle is no longer needed. A dropped handle must not be
// polled again. The task keeps running after its handle is dropped.
type JoinHandle[T any] struct {
	cell *cell[T]
	id   TaskID
}

// ID returns the task's identifier.
func (j *JoinHandle[T]) ID() TaskID {
	return j.id
}

// Poll implements Future.
func (j *JoinHandle[T]) Poll(cx *Context) (T, error) {
	if j.cell == nil {
		panic("coop: JoinHandle polled after Drop")
	}
	return harness[T]{cell: j.cell}.tryReadOutput(cx.Waker())
}

// Drop releases the handle's interest in the task. It is idempotent.
func (j *JoinHandle[T]) Drop() {
	c := j.cell
	if c == nil {
		return
	}
	j.cell = nil
	if c.header.state.dropJoinHandleFast() {
		return
	}
	harness[T]{cell: c}.dropJoinHandleSlow()
}

// Abort requests cancellation. The task stops at its next scheduling point
// and completes with a cancelled *JoinError. Aborting a completed task has
// no effect.
func (j *JoinHandle[T]) Abort() {
	if j.cell == nil {
		panic("coop: JoinHandle aborted after Drop")
	}
	hdr := &j.cell.header
	if hdr.state.transitionToCancelled() {
		hdr.sched.schedule(hdr)
	}
}

// IsFinished reports whether the task has completed.
func (j *JoinHandle[T]) IsFinished() bool {
	if j.cell == nil {
		return true
	}
	return j.cell.header.state.load().isComplete()
}
