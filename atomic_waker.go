// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/atomix"

// AtomicWaker state bits.
const (
	waiting     uint32 = 0
	registering uint32 = 0b01
	waking      uint32 = 0b10
)

// AtomicWaker coordinates one registering consumer with any number of
// goroutines calling Wake.
//
// The consumer calls Register before checking for the condition it waits on;
// producers call Wake after making the condition true. Wake before any
// Register is a no-op. A Wake racing a Register is never lost: whichever side
// observes the other performs the wake.
//
// The zero value is ready to use.
type AtomicWaker struct {
	state atomix.Uint32
	waker Waker
}

// Register stores w to be woken by the next Wake, replacing any
// previously registered waker.
func (aw *AtomicWaker) Register(w Waker) {
	switch {
	case aw.state.CompareAndSwap(waiting, registering):
		if !aw.waker.WillWake(w) {
			aw.waker = w
		}
		if !aw.state.CompareAndSwap(registering, waiting) {
			// A concurrent Wake set the waking bit while we held the
			// registering lock; it left the waker to us.
			woken := aw.waker
			aw.waker = Waker{}
			aw.state.StoreRelease(waiting)
			woken.Wake()
		}
	case aw.state.Load()&waking != 0:
		// Currently being woken; the new registration observes it directly.
		w.Wake()
	default:
		// Concurrent Register calls: one of them wins.
	}
}

// Wake wakes the registered waker, if any, and clears the registration.
func (aw *AtomicWaker) Wake() {
	if w, ok := aw.take(); ok {
		w.Wake()
	}
}

func (aw *AtomicWaker) take() (Waker, bool) {
	prev := aw.state.Or(waking)
	if prev != waiting {
		return Waker{}, false
	}
	w := aw.waker
	aw.waker = Waker{}
	aw.state.And(^waking)
	return w, !w.IsZero()
}
