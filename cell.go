// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/atomix"

// header is the type-erased part of a task. It must be the first field of
// cell so that a *header and its *cell[T] share an address.
type header struct {
	state state

	// Set once at first run, on the scheduler goroutine.
	sched    *scheduler
	ownedKey ownedKey
	bound    bool

	id     TaskID
	vtable vtable
	stats  *stats

	// freed guards against a second dealloc.
	freed atomix.Uint32
}

// Wake implements Wakeable: a task's waker is its header.
func (h *header) Wake() {
	if h.state.transitionToNotified() {
		h.sched.schedule(h)
	}
}

type stage uint8

const (
	stageRunning stage = iota
	stageFinished
	stageConsumed
)

// core holds either the future or its output, never both.
// The scheduler owns it while the task is not complete; afterwards the party
// responsible for the output (the JoinHandle, or the harness when nobody
// is interested) owns it.
type core[T any] struct {
	stage  stage
	future Future[T]
	output T
	err    error
}

func (c *core[T]) storeOutput(v T, err error) {
	c.future = nil
	c.output, c.err = v, err
	c.stage = stageFinished
}

func (c *core[T]) takeOutput() (T, error) {
	if c.stage != stageFinished {
		var zero T
		if c.stage == stageConsumed {
			return zero, ErrOutputConsumed
		}
		panic("coop: reading the output of an incomplete task")
	}
	v, err := c.output, c.err
	c.dropOutput()
	return v, err
}

func (c *core[T]) dropOutput() {
	var zero T
	c.future = nil
	c.output, c.err = zero, nil
	c.stage = stageConsumed
}

// trailer holds the waker of the JoinHandle observing completion.
// Access is governed by the JOIN_WAKER bit.
type trailer struct {
	waker Waker
}

type cell[T any] struct {
	header  header
	core    core[T]
	trailer trailer
}

func newCell[T any](f Future[T]) *cell[T] {
	c := &cell[T]{
		header: header{
			id:     nextTaskID(),
			vtable: rawVTable[T]{},
		},
	}
	c.header.state.init()
	c.core.future = f
	return c
}
