// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// Run creates a runtime with the default configuration, drives f to
// completion on the calling goroutine and closes the runtime. Tasks still
// running when f completes are cancelled.
func Run[T any](f Future[T]) (T, error) {
	rt, err := New(Config{})
	if err != nil {
		var zero T
		return zero, err
	}
	defer rt.Close()
	return BlockOn(rt, f)
}

// Wait drives f on the calling goroutine without a runtime, parking the
// goroutine while f is not ready. It lets plain goroutines observe tasks,
// typically by waiting on a JoinHandle. f must not spawn through its
// Context.
func Wait[T any](f Future[T]) (T, error) {
	p := NewParkThread()
	cx := NewContext(NewWaker(&unparkWaker{u: p.Unpark()}))
	for {
		v, err := f.Poll(cx)
		if !isWouldBlock(err) {
			return v, err
		}
		if err := p.Park(); err != nil {
			var zero T
			return zero, err
		}
	}
}
