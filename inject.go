// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/coop/internal/blocklist"
	"code.hybscloud.com/lfq"
)

// DefaultInjectCapacity is the default capacity of the bounded injection ring.
const DefaultInjectCapacity = 256

// injectQueue receives tasks submitted from any goroutine. The scheduler
// goroutine is its only consumer.
//
// Submissions go to a bounded lock-free ring first and overflow into an
// unbounded block list, so a submitter never waits for the consumer. This
// matters when the submitter is the scheduler goroutine itself, for example
// a task waking another task.
type injectQueue struct {
	ring    lfq.Queue[*header]
	spillTx *blocklist.Tx[*header]
	spillRx *blocklist.Rx[*header]
	spilled atomix.Uint64
}

func newInjectQueue(capacity int) *injectQueue {
	tx, rx := blocklist.New[*header]()
	return &injectQueue{
		ring:    lfq.BuildMPSC[*header](lfq.New(capacity).SingleConsumer().Compact()),
		spillTx: tx,
		spillRx: rx,
	}
}

// push may be called from any goroutine.
func (q *injectQueue) push(t *header) {
	if err := q.ring.Enqueue(&t); err != nil {
		q.spillTx.Push(t)
		q.spilled.Add(1)
	}
}

// pop must only be called by the scheduler goroutine.
func (q *injectQueue) pop() *header {
	if t, err := q.ring.Dequeue(); err == nil {
		return t
	}
	if t, st := q.spillRx.Pop(); st == blocklist.Value {
		return t
	}
	return nil
}
