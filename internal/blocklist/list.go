// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blocklist implements an unbounded lock-free multi-producer
// single-consumer list of fixed-size blocks.
//
// Producers reserve a global slot index with one fetch-add and write into
// the block covering it, linking new blocks with CAS when the tail block is
// exhausted. The single consumer walks the blocks in order and hands fully
// drained blocks back to the producers: a reclaimed block is reset and
// appended after the current tail, or parked in a small spare pool that
// growing producers draw from before allocating.
package blocklist

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

const (
	// reclaimAttempts bounds how far reclaim walks past the tail looking for
	// a free next pointer.
	reclaimAttempts = 3
	// sparePoolCap is the capacity of the spare block pool.
	sparePoolCap = 16
)

// Status is the outcome of Rx.Pop.
type Status uint8

const (
	// Value: a value was returned.
	Value Status = iota
	// Empty: no value is ready yet.
	Empty
	// Closed: the close marker was reached; every earlier value has been read.
	Closed
)

func (s Status) String() string {
	switch s {
	case Value:
		return "value"
	case Empty:
		return "empty"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Tx is the producer half. Its methods are safe for concurrent use.
type Tx[T any] struct {
	blockTail    atomix.Pointer[block[T]]
	tailPosition atomix.Uint64
	spare        lfq.Queue[*block[T]]

	allocated atomix.Uint64
	recycled  atomix.Uint64
}

// Rx is the consumer half. Its methods must be called from one goroutine
// at a time.
type Rx[T any] struct {
	tx       *Tx[T]
	head     *block[T]
	freeHead *block[T]
	index    uint64
}

// New returns the two halves of an empty list.
func New[T any]() (*Tx[T], *Rx[T]) {
	initial := newBlock[T](0)
	tx := &Tx[T]{
		spare: lfq.BuildSPMC[*block[T]](lfq.New(sparePoolCap).SingleProducer().Compact()),
	}
	tx.blockTail.StoreRelease(initial)
	tx.allocated.Store(1)
	rx := &Rx[T]{tx: tx, head: initial, freeHead: initial}
	return tx, rx
}

// Push appends v.
func (tx *Tx[T]) Push(v T) {
	slot := tx.tailPosition.Add(1) - 1
	tx.findBlock(slot).write(slot, v)
}

// Close appends the close marker. Values pushed before Close returns are
// read before the consumer observes Closed; Push must not be called after.
func (tx *Tx[T]) Close() {
	slot := tx.tailPosition.Add(1) - 1
	tx.findBlock(slot).txClose()
}

// Stats reports block allocation and recycling counts.
type Stats struct {
	// Allocated counts blocks allocated from the heap.
	Allocated uint64
	// Recycled counts drained blocks handed back to producers.
	Recycled uint64
}

// Stats returns a snapshot of the list's block counters.
func (tx *Tx[T]) Stats() Stats {
	return Stats{Allocated: tx.allocated.Load(), Recycled: tx.recycled.Load()}
}

func (tx *Tx[T]) findBlock(slot uint64) *block[T] {
	start := startIndex(slot)
	off := offset(slot)

	curr := tx.blockTail.LoadAcquire()
	// Only the producer that is far enough ahead tries to advance the tail,
	// keeping contention on blockTail low.
	tryUpdatingTail := curr.distance(start) > off

	for {
		if curr.isAtIndex(start) {
			return curr
		}
		next := curr.next.LoadAcquire()
		if next == nil {
			next = curr.grow(tx.newBlock())
		}
		tryUpdatingTail = tryUpdatingTail && curr.isFinal()
		if tryUpdatingTail {
			if tx.blockTail.CompareAndSwapAcqRel(curr, next) {
				curr.txRelease(tx.tailPosition.Load())
			} else {
				tryUpdatingTail = false
			}
		}
		curr = next
	}
}

func (tx *Tx[T]) newBlock() *block[T] {
	if b, err := tx.spare.Dequeue(); err == nil {
		return b
	}
	tx.allocated.Add(1)
	return newBlock[T](0)
}

// reclaimBlock resets b and appends it after the tail. When the tail keeps
// moving, b goes to the spare pool, or is dropped if the pool is full.
func (tx *Tx[T]) reclaimBlock(b *block[T]) {
	b.reset()
	tx.recycled.Add(1)
	curr := tx.blockTail.LoadAcquire()
	for range reclaimAttempts {
		next, ok := curr.tryPush(b)
		if ok {
			return
		}
		curr = next
	}
	b.startIndex = 0
	_ = tx.spare.Enqueue(&b)
}

// Pop returns the next value in push order.
// Empty is transient: a producer may not have finished linking or writing.
// Once Closed is returned it is returned on every later call.
func (rx *Rx[T]) Pop() (T, Status) {
	var zero T
	if !rx.tryAdvancingHead() {
		return zero, Empty
	}
	rx.reclaimBlocks()
	v, ok, closed := rx.head.read(rx.index)
	switch {
	case ok:
		rx.index++
		return v, Value
	case closed:
		return zero, Closed
	}
	return zero, Empty
}

func (rx *Rx[T]) tryAdvancingHead() bool {
	start := startIndex(rx.index)
	for !rx.head.isAtIndex(start) {
		next := rx.head.next.LoadAcquire()
		if next == nil {
			return false
		}
		rx.head = next
	}
	return true
}

func (rx *Rx[T]) reclaimBlocks() {
	for rx.freeHead != rx.head {
		b := rx.freeHead
		required, ok := b.releasedAt()
		if !ok || required > rx.index {
			return
		}
		next := b.next.LoadAcquire()
		if next == nil {
			panic("blocklist: released block has no successor")
		}
		rx.freeHead = next
		rx.tx.reclaimBlock(b)
	}
}
