// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Park blocks the scheduler goroutine when no work is runnable.
//
// I/O and timer drivers plug into the runtime by implementing Park: the
// scheduler parks on them and they make progress while it is parked.
type Park interface {
	// Park blocks until unparked. Spurious returns are allowed.
	Park() error
	// ParkTimeout blocks for at most d. A zero d only consumes a pending
	// unpark, without blocking.
	ParkTimeout(d time.Duration) error
	// Unpark returns the handle that wakes this Park.
	Unpark() Unpark
}

// Unpark wakes a Park. It is safe to call from any goroutine. Every call
// causes at least one subsequent or in-progress park to return.
type Unpark interface {
	Unpark()
}

const (
	parkEmpty uint32 = iota
	parkParked
	parkNotified
)

// ParkThread is the default Park: it blocks the calling goroutine on a
// condition variable.
type ParkThread struct {
	inner *parkInner
}

type parkInner struct {
	state atomix.Uint32
	mu    sync.Mutex
	cond  sync.Cond
}

// NewParkThread returns a ready ParkThread.
func NewParkThread() *ParkThread {
	inner := &parkInner{}
	inner.cond.L = &inner.mu
	return &ParkThread{inner: inner}
}

// Park implements Park.
func (p *ParkThread) Park() error {
	p.inner.park()
	return nil
}

// ParkTimeout implements Park.
func (p *ParkThread) ParkTimeout(d time.Duration) error {
	p.inner.parkTimeout(d)
	return nil
}

// Unpark implements Park.
func (p *ParkThread) Unpark() Unpark {
	return p.inner
}

func (p *parkInner) park() {
	// Fast path: a pending notification.
	if p.state.CompareAndSwap(parkNotified, parkEmpty) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CompareAndSwap(parkEmpty, parkParked) {
		// Notified while taking the lock.
		if old := p.state.Swap(parkEmpty); old != parkNotified {
			panic("coop: inconsistent park state")
		}
		return
	}
	for {
		p.cond.Wait()
		if p.state.CompareAndSwap(parkNotified, parkEmpty) {
			return
		}
	}
}

func (p *parkInner) parkTimeout(d time.Duration) {
	if p.state.CompareAndSwap(parkNotified, parkEmpty) {
		return
	}
	if d <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CompareAndSwap(parkEmpty, parkParked) {
		if old := p.state.Swap(parkEmpty); old != parkNotified {
			panic("coop: inconsistent park state")
		}
		return
	}
	t := time.AfterFunc(d, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	p.cond.Wait()
	t.Stop()
	switch p.state.Swap(parkEmpty) {
	case parkNotified, parkParked:
	default:
		panic("coop: inconsistent park state")
	}
}

// Unpark implements Unpark.
func (p *parkInner) Unpark() {
	switch p.state.Swap(parkNotified) {
	case parkEmpty, parkNotified:
		return
	case parkParked:
	default:
		panic("coop: inconsistent park state")
	}
	// Taking the lock orders this signal after the parker's Wait.
	p.mu.Lock()
	p.mu.Unlock()
	p.cond.Signal()
}
