// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpsc provides an unbounded multi-producer single-consumer channel
// for tasks of a [code.hybscloud.com/coop] runtime.
//
// Values are stored in a lock-free linked list of fixed-size blocks.
// Producers on any goroutine append without locks; the receiver walks the
// blocks in order and recycles drained ones as new tail capacity.
//
// The receiver follows the runtime's suspension protocol: [Receiver.PollRecv]
// returns [code.hybscloud.com/iox.ErrWouldBlock] after registering the
// caller's waker, and a later [Sender.Send] wakes it. End of stream is a
// value, not an error: once every [Sender] is closed and the buffer is
// drained, receives report an absent value, indefinitely.
//
//	tx, rx := mpsc.UnboundedChannel[int]()
//	go func() {
//		defer tx.Close()
//		for i := range 3 {
//			_ = tx.Send(i)
//		}
//	}()
//	sum, _ := coop.Exec(rt, mpsc.Drain(rx, 0, func(a, v int) int { return a + v }))
package mpsc
