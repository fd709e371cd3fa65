// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
)

// Sender is the sending half of an unbounded channel.
// Clone it for each additional producer; every clone must be closed.
type Sender[T any] struct {
	ch     *chanState[T]
	closed atomix.Uint32
}

// Receiver is the receiving half of an unbounded channel.
// It must be used by one goroutine at a time.
type Receiver[T any] struct {
	ch *chanState[T]
}

// UnboundedChannel creates an unbounded multi-producer single-consumer
// channel.
//
// Send never blocks and succeeds as long as the receiver is open; memory is
// the only bound on buffered values. Values from one Sender are received in
// the order they were sent.
func UnboundedChannel[T any]() (*Sender[T], *Receiver[T]) {
	ch := newChan[T]()
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

// Send enqueues v and wakes the receiver. It fails with a *SendError
// wrapping ErrClosed once the receiver has been closed.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() != 0 {
		panic("mpsc: send on a closed Sender")
	}
	return s.ch.send(v)
}

// Clone returns a new Sender for the same channel.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() != 0 {
		panic("mpsc: clone of a closed Sender")
	}
	s.ch.txCount.Add(1)
	return &Sender[T]{ch: s.ch}
}

// Close releases this Sender. When the last Sender closes, the receiver
// observes end of stream after the buffered values. Close is idempotent.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(0, 1) {
		return
	}
	s.ch.releaseTx()
}

// PollRecv receives the next value.
//
// It returns (v, true, nil) for a value, (zero, false, nil) at end of stream
// (every Sender closed, or the Receiver closed, and nothing buffered), and
// iox.ErrWouldBlock when it must wait, after registering cx's waker. End of
// stream is reported again on every later call.
func (r *Receiver[T]) PollRecv(cx *coop.Context) (T, bool, error) {
	return r.ch.recv(cx)
}

// TryRecv receives without suspending. It returns iox.ErrWouldBlock when
// nothing is buffered yet.
func (r *Receiver[T]) TryRecv() (T, bool, error) {
	v, ok, err := r.ch.tryRecv()
	if iox.IsWouldBlock(err) && r.ch.rxClosed && r.ch.isIdle() {
		return v, false, nil
	}
	return v, ok, err
}

// Recv returns a future receiving the next value. Its Option is absent at
// end of stream.
func (r *Receiver[T]) Recv() coop.Future[coop.Option[T]] {
	return recvFuture[T]{r: r}
}

// Close stops accepting values. Values already sent can still be received.
func (r *Receiver[T]) Close() {
	r.ch.closeRx()
}

// BlockStats reports how many blocks the channel allocated and how many
// drained blocks it recycled.
func (r *Receiver[T]) BlockStats() (allocated, recycled uint64) {
	st := r.ch.tx.Stats()
	return st.Allocated, st.Recycled
}

type recvFuture[T any] struct {
	r *Receiver[T]
}

func (f recvFuture[T]) Poll(cx *coop.Context) (coop.Option[T], error) {
	v, ok, err := f.r.PollRecv(cx)
	if err != nil {
		return coop.Option[T]{}, err
	}
	return coop.Option[T]{Value: v, Ok: ok}, nil
}
