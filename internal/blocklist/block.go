// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocklist

import "code.hybscloud.com/atomix"

// BlockCap is the number of slots per block.
const BlockCap = 32

const (
	blockMask = ^uint64(BlockCap - 1)
	slotMask  = uint64(BlockCap - 1)

	// readyMask covers the per-slot ready bits.
	readyMask = uint64(1)<<BlockCap - 1
	// released is set once the producers moved past the block and
	// observedTailPosition is valid.
	released = uint64(1) << BlockCap
	// txClosed is set on the block holding the close marker.
	txClosed = released << 1
)

// block is a fixed-size run of slots in the list.
type block[T any] struct {
	// startIndex is the global index of slot 0. Written before the block is
	// published through a next pointer, read only after.
	startIndex uint64

	next atomix.Pointer[block[T]]

	readySlots atomix.Uint64

	// observedTailPosition is the producers' tail position when the block was
	// released. Written before released is set.
	observedTailPosition uint64

	values [BlockCap]T
}

func newBlock[T any](startIndex uint64) *block[T] {
	return &block[T]{startIndex: startIndex}
}

func startIndex(slotIndex uint64) uint64 { return slotIndex & blockMask }
func offset(slotIndex uint64) uint64     { return slotIndex & slotMask }

func (b *block[T]) isAtIndex(index uint64) bool {
	return b.startIndex == index
}

// distance is the number of blocks between b and the block starting at
// otherIndex.
func (b *block[T]) distance(otherIndex uint64) uint64 {
	return (otherIndex - b.startIndex) / BlockCap
}

// read returns the value in slot. ok is false when the slot is not ready;
// closed is then set if the close marker was written to this block.
func (b *block[T]) read(slotIndex uint64) (v T, ok, closed bool) {
	off := offset(slotIndex)
	bits := b.readySlots.LoadAcquire()
	if bits&(1<<off) == 0 {
		return v, false, bits&txClosed != 0
	}
	v = b.values[off]
	var zero T
	b.values[off] = zero
	return v, true, false
}

// write stores v in slot and marks it ready.
func (b *block[T]) write(slotIndex uint64, v T) {
	off := offset(slotIndex)
	b.values[off] = v
	b.readySlots.Or(1 << off)
}

func (b *block[T]) txClose() {
	b.readySlots.Or(txClosed)
}

// txRelease records the tail position observed after the block was
// superseded as the producers' tail.
func (b *block[T]) txRelease(tailPosition uint64) {
	b.observedTailPosition = tailPosition
	b.readySlots.Or(released)
}

// isFinal reports whether every slot has been written.
func (b *block[T]) isFinal() bool {
	return b.readySlots.LoadAcquire()&readyMask == readyMask
}

// releasedAt returns observedTailPosition once the block has been released.
func (b *block[T]) releasedAt() (uint64, bool) {
	if b.readySlots.LoadAcquire()&released == 0 {
		return 0, false
	}
	return b.observedTailPosition, true
}

// reset prepares a drained block for reuse.
func (b *block[T]) reset() {
	b.startIndex = 0
	b.next.Store(nil)
	b.readySlots.Store(0)
	b.observedTailPosition = 0
}

// tryPush links nb after b. On failure it returns the block already linked.
func (b *block[T]) tryPush(nb *block[T]) (*block[T], bool) {
	nb.startIndex = b.startIndex + BlockCap
	if b.next.CompareAndSwapAcqRel(nil, nb) {
		return nil, true
	}
	return b.next.LoadAcquire(), false
}

// grow appends nb somewhere after b and returns b's successor.
// Concurrent producers may have linked blocks already; nb then goes to the
// end of the chain so the allocation is not wasted.
func (b *block[T]) grow(nb *block[T]) *block[T] {
	next, ok := b.tryPush(nb)
	if ok {
		return nb
	}
	curr := next
	for {
		n, ok := curr.tryPush(nb)
		if ok {
			return next
		}
		curr = n
	}
}
