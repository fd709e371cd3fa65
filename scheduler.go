// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// scheduler is the single-threaded executor behind a Runtime.
//
// The local run queue, the owned set and the tick counter belong to the
// goroutine inside BlockOn. Other goroutines reach the scheduler only
// through submit, which feeds the injection queue and unparks.
type scheduler struct {
	maxTasksPerTick     int
	remoteFirstInterval uint32
	budget              Budget

	local  runQueue
	inject *injectQueue
	owned  ownedTasks
	tick   uint32

	park   Park
	unpark Unpark
	root   Waker

	entered    atomix.Uint32
	closed     atomix.Uint32
	submitting atomix.Uint32

	stats  stats
	logger Logger
}

func newScheduler(cfg Config) *scheduler {
	s := &scheduler{
		maxTasksPerTick:     cfg.MaxTasksPerTick,
		remoteFirstInterval: uint32(cfg.RemoteFirstInterval),
		budget:              cfg.budget(),
		local:               newRunQueue(cfg.InitialQueueCapacity),
		inject:              newInjectQueue(cfg.InjectCapacity),
		park:                cfg.Park,
		unpark:              cfg.Park.Unpark(),
		logger:              cfg.Logger,
	}
	s.root = NewWaker(&unparkWaker{u: s.unpark})
	return s
}

// unparkWaker is the root future's waker: the root is polled on every
// iteration, so waking it only has to end a park.
type unparkWaker struct {
	u Unpark
}

func (w *unparkWaker) Wake() { w.u.Unpark() }

func (s *scheduler) enter() {
	if !s.entered.CompareAndSwap(0, 1) {
		panic("coop: BlockOn called on a runtime that is already running")
	}
}

func (s *scheduler) exit() {
	s.entered.Store(0)
}

// blockOn polls root until it is ready, running queued tasks in between.
func (s *scheduler) blockOn(root func(cx *Context) (pending bool)) error {
	s.enter()
	defer s.exit()

	cx := Context{waker: s.root, sched: s}
	for {
		cx.budget = s.budget
		if !root(&cx) {
			return nil
		}
		if err := s.runTick(); err != nil {
			return err
		}
	}
}

// runTick runs up to maxTasksPerTick queued tasks. When no task is
// available it parks until woken. Otherwise, after a full batch, it gives
// the park a zero-timeout turn so drivers behind it make progress.
func (s *scheduler) runTick() error {
	for range s.maxTasksPerTick {
		t := s.next()
		if t == nil {
			s.stats.parked.Add(1)
			if err := s.park.Park(); err != nil {
				return fmt.Errorf("coop: park: %w", err)
			}
			return nil
		}
		if t.poll(s) {
			s.local.pushBack(t)
		}
	}
	if err := s.park.ParkTimeout(0); err != nil {
		return fmt.Errorf("coop: park: %w", err)
	}
	return nil
}

// next picks the next task. Every remoteFirstInterval ticks the injection
// queue goes first so a busy local queue cannot starve remote work.
func (s *scheduler) next() *header {
	tick := s.tick
	s.tick++
	if tick%s.remoteFirstInterval == 0 {
		if t := s.inject.pop(); t != nil {
			return t
		}
		return s.local.popFront()
	}
	if t := s.local.popFront(); t != nil {
		return t
	}
	return s.inject.pop()
}

// spawnLocal queues a new task from the scheduler goroutine.
func (s *scheduler) spawnLocal(t *header) {
	t.stats = &s.stats
	s.stats.spawned.Add(1)
	s.local.pushBack(t)
}

// spawnRemote queues a new task from any goroutine. On a closed runtime
// the task is cancelled before it ever runs.
func (s *scheduler) spawnRemote(t *header) {
	t.stats = &s.stats
	s.stats.spawned.Add(1)
	if !s.submit(t) {
		t.shutdown()
	}
}

// schedule queues a woken task. Wakes arriving after Close are dropped;
// Close cancels the task anyway.
func (s *scheduler) schedule(t *header) {
	s.submit(t)
}

func (s *scheduler) submit(t *header) bool {
	s.submitting.Add(1)
	defer s.submitting.Add(^uint32(0))
	if s.closed.Load() != 0 {
		return false
	}
	s.inject.push(t)
	s.stats.injected.Add(1)
	s.unpark.Unpark()
	return true
}

// bind attaches a task to s at its first run.
func (s *scheduler) bind(t *header) {
	t.sched = s
	t.ownedKey = s.owned.insert(t)
	t.bound = true
}

// release detaches a completed task.
func (s *scheduler) release(t *header) {
	s.owned.remove(t.ownedKey)
}

// close cancels every task still queued or owned. It must run on the
// goroutine that drives BlockOn, and not from inside it.
func (s *scheduler) close() {
	if s.entered.Load() != 0 {
		panic("coop: Close called while BlockOn is running")
	}
	if !s.closed.CompareAndSwap(0, 1) {
		return
	}
	// Submitters that saw the runtime open finish their push first.
	var bo iox.Backoff
	for s.submitting.Load() != 0 {
		bo.Wait()
	}

	cancelled := 0
	for t := s.local.popFront(); t != nil; t = s.local.popFront() {
		t.shutdown()
		cancelled++
	}
	for t := s.inject.pop(); t != nil; t = s.inject.pop() {
		t.shutdown()
		cancelled++
	}
	s.owned.each(func(t *header) {
		t.shutdown()
		cancelled++
	})
	s.logger.Debug("runtime closed", F("cancelled", cancelled))
}

func (s *scheduler) snapshot() Stats {
	return Stats{
		Spawned:   s.stats.spawned.Load(),
		Polled:    s.stats.polled.Load(),
		Completed: s.stats.completed.Load(),
		Released:  s.stats.released.Load(),
		Injected:  s.stats.injected.Load(),
		Spilled:   s.inject.spilled.Load(),
		Parked:    s.stats.parked.Load(),
	}
}
