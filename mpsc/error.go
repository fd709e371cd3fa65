// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import "errors"

// ErrClosed reports that the receiving half has been closed.
var ErrClosed = errors.New("mpsc: channel closed")

// SendError is returned by Sender.Send when the value could not be
// delivered. It gives the value back to the caller.
type SendError[T any] struct {
	Value T
}

func (e *SendError[T]) Error() string {
	return "mpsc: send on closed channel"
}

// Unwrap returns ErrClosed.
func (e *SendError[T]) Unwrap() error {
	return ErrClosed
}
