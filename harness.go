// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"unsafe"

	"code.hybscloud.com/iox"
)

// harness is the typed view of a task. It is the only place a *header is
// converted back into the *cell[T] that contains it.
type harness[T any] struct {
	cell *cell[T]
}

func harnessOf[T any](t *header) harness[T] {
	return harness[T]{cell: (*cell[T])(unsafe.Pointer(t))}
}

func (h harness[T]) header() *header {
	return &h.cell.header
}

// poll runs one step of the task on s. It reports whether the task was
// woken during the step and must be queued again.
func (h harness[T]) poll(s *scheduler) bool {
	hdr := h.header()
	snap, ok := hdr.state.transitionToRunning()
	if !ok {
		return false
	}
	if !hdr.bound {
		s.bind(hdr)
	}
	if snap.isCancelled() {
		var zero T
		h.complete(zero, cancelledError(hdr.id))
		return false
	}

	cx := Context{waker: NewWaker(hdr), budget: s.budget, sched: s}
	v, err, pending := pollCatching(hdr.id, h.cell.core.future, &cx)
	s.stats.polled.Add(1)
	if pending {
		return hdr.state.transitionToIdle().isNotified()
	}
	if je, ok := err.(*JoinError); ok && je.ID == hdr.id && je.IsPanic() {
		s.logger.Warn("task panicked", F("task", hdr.id), F("value", je.Value))
	}
	h.complete(v, err)
	return false
}

// complete stores the output, publishes COMPLETE and releases the
// scheduler's reference.
func (h harness[T]) complete(v T, err error) {
	hdr := h.header()
	h.cell.core.storeOutput(v, err)
	snap := hdr.state.transitionToComplete()
	if !snap.isJoinInterested() {
		// Nobody will read it.
		h.cell.core.dropOutput()
	} else if snap.hasJoinWaker() {
		h.cell.trailer.waker.Wake()
	}
	if hdr.stats != nil {
		hdr.stats.completed.Add(1)
	}
	if hdr.bound {
		hdr.sched.release(hdr)
	}
	if hdr.state.refDec() {
		h.dealloc()
	}
}

// shutdown cancels a task that is not running. Tasks already complete are
// left alone.
func (h harness[T]) shutdown() {
	hdr := h.header()
	if !hdr.state.transitionToShutdown() {
		return
	}
	var zero T
	h.complete(zero, cancelledError(hdr.id))
}

// tryReadOutput takes the output if the task is complete. Otherwise it
// installs w as the join waker and returns iox.ErrWouldBlock.
func (h harness[T]) tryReadOutput(w Waker) (T, error) {
	snap := h.header().state.load()
	if !snap.isComplete() && h.setJoinWaker(snap, w) {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	return h.cell.core.takeOutput()
}

// setJoinWaker stores w in the trailer. It returns false when the task
// completed concurrently, in which case the output is ready to read.
func (h harness[T]) setJoinWaker(snap snapshot, w Waker) bool {
	hdr := h.header()
	if snap.hasJoinWaker() {
		if h.cell.trailer.waker.WillWake(w) {
			return true
		}
		if _, ok := hdr.state.unsetWaker(); !ok {
			return false
		}
	}
	h.cell.trailer.waker = w
	if _, ok := hdr.state.setJoinWaker(); !ok {
		h.cell.trailer.waker = Waker{}
		return false
	}
	return true
}

// dropJoinHandleSlow releases the JoinHandle's reference. When the task has
// already completed, the output is discarded here.
func (h harness[T]) dropJoinHandleSlow() {
	hdr := h.header()
	if _, ok := hdr.state.unsetJoinInterested(); !ok {
		h.cell.core.dropOutput()
	}
	if hdr.state.refDec() {
		h.dealloc()
	}
}

func (h harness[T]) dealloc() {
	hdr := h.header()
	if !hdr.freed.CompareAndSwap(0, 1) {
		panic("coop: task deallocated twice")
	}
	if !hdr.state.load().isComplete() {
		panic("coop: deallocating an incomplete task")
	}
	h.cell.core = core[T]{stage: stageConsumed}
	h.cell.trailer = trailer{}
	if hdr.stats != nil {
		hdr.stats.released.Add(1)
	}
}
