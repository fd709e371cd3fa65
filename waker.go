// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// Wakeable is the target of a [Waker].
// Implementations must be safe to call from any goroutine and should be
// pointer types so that [Waker.WillWake] can compare them.
type Wakeable interface {
	Wake()
}

// Waker signals a suspended computation that it may make progress again.
// A Waker is a small value; copying it clones it.
type Waker struct {
	target Wakeable
}

// NewWaker returns a Waker invoking w.
func NewWaker(w Wakeable) Waker {
	return Waker{target: w}
}

type funcWaker struct {
	f func()
}

func (w *funcWaker) Wake() { w.f() }

// WakerFunc returns a Waker calling f on every wake.
func WakerFunc(f func()) Waker {
	return Waker{target: &funcWaker{f: f}}
}

type noopWaker struct{}

func (*noopWaker) Wake() {}

var noop = &noopWaker{}

// NoopWaker returns a Waker that does nothing.
func NoopWaker() Waker {
	return Waker{target: noop}
}

// Wake invokes the target. Waking the zero Waker is a no-op.
func (w Waker) Wake() {
	if w.target != nil {
		w.target.Wake()
	}
}

// IsZero reports whether w has no target.
func (w Waker) IsZero() bool {
	return w.target == nil
}

// WillWake reports whether w and other wake the same target.
func (w Waker) WillWake(other Waker) bool {
	return equal(w.target, other.target)
}

// equal compares interface values without panicking on
// non-comparable dynamic types.
func equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
