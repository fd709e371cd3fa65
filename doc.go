// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coop provides a single-threaded cooperative task runtime.
//
// One worker goroutine drives many independently suspendable computations
// ([Future]) to completion. Computations never block: a step that cannot make
// progress arranges a wake-up through its [Waker] and returns
// [code.hybscloud.com/iox.ErrWouldBlock].
//
// # Architecture
//
//   - Tasks: a reference-counted control block whose lifecycle is one atomic
//     word ([code.hybscloud.com/atomix]). The scheduler, the task's own step
//     and the [JoinHandle] coordinate exclusively through that word.
//   - Scheduling: [BlockOn] polls a root future and, between root polls, runs a
//     bounded number of queued tasks per tick, alternating between the local
//     run queue and the injection queue fed from other goroutines.
//   - Fairness: a per-poll [Budget] forces long-running steps to yield via
//     [PollProceed].
//   - Parking: when nothing is runnable the worker blocks in a [Park]; any
//     goroutine may [Unpark] it.
//   - Messaging: [code.hybscloud.com/coop/mpsc] provides a lock-free unbounded
//     channel whose receiver suspends with the same protocol.
//   - Effects: task bodies may also be written as [code.hybscloud.com/kont]
//     programs performing [Await] effects, see [FromEff] and [Step].
//
// # Example
//
//	rt, _ := coop.New(coop.Config{})
//	defer rt.Close()
//	tx, rx := mpsc.UnboundedChannel[string]()
//	coop.Spawn(rt, coop.FutureFunc[struct{}](func(*coop.Context) (struct{}, error) {
//		defer tx.Close()
//		return struct{}{}, tx.Send("hello")
//	}))
//	msg, err := coop.BlockOn(rt, rx.Recv()) // msg.Value == "hello"
package coop
