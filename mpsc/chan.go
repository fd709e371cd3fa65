// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/coop"
	"code.hybscloud.com/coop/internal/blocklist"
	"code.hybscloud.com/iox"
)

// semClosed is the closed bit of the unbounded semaphore; the remaining
// bits count values sent but not yet received, times two.
const semClosed = 1

// chanState is shared by all handles of one channel.
type chanState[T any] struct {
	tx *blocklist.Tx[T]

	// semaphore admits sends until the receiver closes.
	semaphore atomix.Uint64

	// txCount is the number of open Sender handles.
	txCount atomix.Uint64

	// rxWaker is woken after a value becomes visible or the last
	// sender closes.
	rxWaker coop.AtomicWaker

	// Receiver-only fields.
	rx       *blocklist.Rx[T]
	rxClosed bool
}

func newChan[T any]() *chanState[T] {
	tx, rx := blocklist.New[T]()
	c := &chanState[T]{tx: tx, rx: rx}
	c.txCount.Store(1)
	return c
}

// acquire admits one value. It fails once the receiver has closed.
func (c *chanState[T]) acquire() bool {
	for {
		curr := c.semaphore.Load()
		if curr&semClosed != 0 {
			return false
		}
		if c.semaphore.CompareAndSwap(curr, curr+2) {
			return true
		}
	}
}

// addPermit records that one value was received.
func (c *chanState[T]) addPermit() {
	c.semaphore.Add(^uint64(1))
}

func (c *chanState[T]) isIdle() bool {
	return c.semaphore.Load()>>1 == 0
}

func (c *chanState[T]) closeSemaphore() {
	for {
		curr := c.semaphore.Load()
		if c.semaphore.CompareAndSwap(curr, curr|semClosed) {
			return
		}
	}
}

func (c *chanState[T]) send(v T) error {
	if !c.acquire() {
		return &SendError[T]{Value: v}
	}
	c.tx.Push(v)
	c.rxWaker.Wake()
	return nil
}

// releaseTx drops one sender. The last one appends the close marker.
func (c *chanState[T]) releaseTx() {
	if c.txCount.Add(^uint64(0)) != 0 {
		return
	}
	c.tx.Close()
	c.rxWaker.Wake()
}

// tryRecv pops once. ok is false with a nil error at end of stream and
// false with iox.ErrWouldBlock when nothing is ready.
func (c *chanState[T]) tryRecv() (v T, ok bool, err error) {
	v, st := c.rx.Pop()
	switch st {
	case blocklist.Value:
		c.addPermit()
		return v, true, nil
	case blocklist.Closed:
		if !c.isIdle() {
			panic("mpsc: end of stream with values in flight")
		}
		return v, false, nil
	}
	return v, false, iox.ErrWouldBlock
}

// recv is the receive step of the suspension protocol.
func (c *chanState[T]) recv(cx *coop.Context) (T, bool, error) {
	var zero T
	if err := coop.PollProceed(cx); err != nil {
		return zero, false, err
	}
	if v, ok, err := c.tryRecv(); err == nil {
		return v, ok, nil
	}
	// Register before the second look so a send in between is not missed.
	c.rxWaker.Register(cx.Waker())
	if v, ok, err := c.tryRecv(); err == nil {
		return v, ok, nil
	}
	if c.rxClosed && c.isIdle() {
		return zero, false, nil
	}
	return zero, false, iox.ErrWouldBlock
}

// closeRx stops further sends. Buffered values remain receivable.
func (c *chanState[T]) closeRx() {
	if c.rxClosed {
		return
	}
	c.rxClosed = true
	c.closeSemaphore()
}
