// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// DefaultQueueCapacity is the initial capacity of the local run queue.
const DefaultQueueCapacity = 64

// runQueue is the scheduler-local run queue: a growable ring buffer.
// Only the scheduler goroutine touches it.
type runQueue struct {
	buf  []*header
	head int
	n    int
}

func newRunQueue(capacity int) runQueue {
	return runQueue{buf: make([]*header, capacity)}
}

func (q *runQueue) len() int { return q.n }

func (q *runQueue) pushBack(t *header) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
}

func (q *runQueue) popFront() *header {
	if q.n == 0 {
		return nil
	}
	t := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return t
}

func (q *runQueue) grow() {
	size := 2 * len(q.buf)
	if size == 0 {
		size = DefaultQueueCapacity
	}
	buf := make([]*header, size)
	for i := range q.n {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
