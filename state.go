// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/atomix"

// Task state bits. The reference count occupies the bits above stateMask.
const (
	// stateRunning is set while the task's step is executing.
	stateRunning uint64 = 1 << iota
	// stateComplete is terminal: once set it is never cleared.
	stateComplete
	// stateNotified is set while the task sits in a run queue.
	stateNotified
	// stateJoinInterest is set while the JoinHandle exists.
	stateJoinInterest
	// stateJoinWaker is set while the trailer holds the JoinHandle's waker.
	stateJoinWaker
	// stateCancelled is set once the task has been asked to stop.
	stateCancelled
)

const (
	lifecycleMask = stateRunning | stateComplete
	stateMask     = lifecycleMask | stateNotified | stateJoinInterest | stateJoinWaker | stateCancelled
	refCountMask  = ^stateMask
	refCountShift = 6
	refOne        = uint64(1) << refCountShift

	// initialState holds two references, one for the scheduler and one for
	// the JoinHandle. A new task is queued right away, hence NOTIFIED.
	initialState = refOne*2 | stateJoinInterest | stateNotified
)

// state is the task's lifecycle word. Every transition is a read-modify-write
// on one atomic, which gives all parties a single modification order.
type state struct {
	val atomix.Uint64
}

// snapshot is a loaded state value.
type snapshot uint64

// init sets the state of a task that has not been published yet.
func (s *state) init() {
	s.val.Store(initialState)
}

func (s *state) load() snapshot {
	return snapshot(s.val.Load())
}

// fetchUpdate applies f until the CAS succeeds. f returns false to abort,
// in which case the current snapshot is returned with ok == false.
func (s *state) fetchUpdate(f func(curr snapshot) (snapshot, bool)) (snapshot, bool) {
	curr := s.load()
	for {
		next, ok := f(curr)
		if !ok {
			return curr, false
		}
		if s.val.CompareAndSwap(uint64(curr), uint64(next)) {
			return next, true
		}
		curr = s.load()
	}
}

// transitionToRunning moves a notified task into its step.
// It fails when the task has already completed.
func (s *state) transitionToRunning() (snapshot, bool) {
	return s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isNotified() {
			panic("coop: running a task that was not notified")
		}
		if curr.isComplete() {
			return curr, false
		}
		if curr.isRunning() {
			panic("coop: task is already running")
		}
		next := curr&^snapshot(stateNotified) | snapshot(stateRunning)
		return next, true
	})
}

// transitionToIdle ends a step that did not complete. The returned snapshot
// reports NOTIFIED when the task was woken (or cancelled) during the step and
// must be queued again by the caller.
func (s *state) transitionToIdle() snapshot {
	next, _ := s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isRunning() {
			panic("coop: idle transition outside of a step")
		}
		return curr &^ snapshot(stateRunning), true
	})
	return next
}

// transitionToComplete ends the task's final step.
func (s *state) transitionToComplete() snapshot {
	next, _ := s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isRunning() {
			panic("coop: completing a task outside of a step")
		}
		if curr.isComplete() {
			panic("coop: task completed twice")
		}
		return curr&^snapshot(stateRunning|stateNotified) | snapshot(stateComplete), true
	})
	return next
}

// transitionToNotified records a wake. It returns true when the caller must
// submit the task to a run queue: the task is neither complete, already
// queued, nor currently running (a running task is requeued by its step).
func (s *state) transitionToNotified() bool {
	prev := s.load()
	_, ok := s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		prev = curr
		if curr.isComplete() || curr.isNotified() {
			return curr, false
		}
		return curr | snapshot(stateNotified), true
	})
	return ok && !prev.isRunning()
}

// transitionToCancelled marks the task cancelled and notified. The submit
// rule is the same as transitionToNotified.
func (s *state) transitionToCancelled() bool {
	prev := s.load()
	_, ok := s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		prev = curr
		if curr.isComplete() || curr.isCancelled() {
			return curr, false
		}
		return curr | snapshot(stateCancelled|stateNotified), true
	})
	return ok && !prev.isRunning() && !prev.isNotified()
}

// transitionToShutdown claims an idle task for cancellation. It sets RUNNING
// so that completion follows the usual path, and fails when the task is
// complete or inside a step.
func (s *state) transitionToShutdown() bool {
	_, ok := s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if curr.isComplete() || curr.isRunning() {
			return curr, false
		}
		return curr | snapshot(stateRunning|stateCancelled), true
	})
	return ok
}

// dropJoinHandleFast optimistically drops the JoinHandle assuming it was
// never polled and the task never ran.
func (s *state) dropJoinHandleFast() bool {
	return s.val.CompareAndSwap(initialState, (initialState-refOne)&^stateJoinInterest)
}

// unsetJoinInterested clears JOIN_INTEREST. It fails once the task has
// completed, in which case the caller owns disposal of the output.
func (s *state) unsetJoinInterested() (snapshot, bool) {
	return s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isJoinInterested() {
			panic("coop: join interest already released")
		}
		if curr.isComplete() {
			return curr, false
		}
		return curr &^ snapshot(stateJoinInterest), true
	})
}

// setJoinWaker publishes the trailer's waker. It fails once the task has
// completed; the caller must then read the output instead.
func (s *state) setJoinWaker() (snapshot, bool) {
	return s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isJoinInterested() {
			panic("coop: setting join waker without join interest")
		}
		if curr.hasJoinWaker() {
			panic("coop: join waker installed twice")
		}
		if curr.isComplete() {
			return curr, false
		}
		return curr | snapshot(stateJoinWaker), true
	})
}

// unsetWaker takes back the trailer's waker so it may be replaced.
// It fails once the task has completed.
func (s *state) unsetWaker() (snapshot, bool) {
	return s.fetchUpdate(func(curr snapshot) (snapshot, bool) {
		if !curr.isJoinInterested() {
			panic("coop: unsetting join waker without join interest")
		}
		if !curr.hasJoinWaker() {
			panic("coop: unsetting a join waker that is not set")
		}
		if curr.isComplete() {
			return curr, false
		}
		return curr &^ snapshot(stateJoinWaker), true
	})
}

// refDec drops one reference and reports whether it was the last one.
func (s *state) refDec() bool {
	prev := snapshot(s.val.Add(^(refOne - 1)) + refOne)
	if prev.refCount() == 0 {
		panic("coop: task reference count underflow")
	}
	return prev.refCount() == 1
}

func (s snapshot) isRunning() bool        { return uint64(s)&stateRunning != 0 }
func (s snapshot) isComplete() bool       { return uint64(s)&stateComplete != 0 }
func (s snapshot) isNotified() bool       { return uint64(s)&stateNotified != 0 }
func (s snapshot) isCancelled() bool      { return uint64(s)&stateCancelled != 0 }
func (s snapshot) isJoinInterested() bool { return uint64(s)&stateJoinInterest != 0 }
func (s snapshot) hasJoinWaker() bool     { return uint64(s)&stateJoinWaker != 0 }

func (s snapshot) refCount() uint64 {
	return (uint64(s) & refCountMask) >> refCountShift
}
