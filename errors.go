// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrOutputConsumed is returned when a task's output is read a second time.
	ErrOutputConsumed = errors.New("coop: task output already consumed")

	// ErrRuntimeClosed is returned by BlockOn on a closed runtime.
	ErrRuntimeClosed = errors.New("coop: runtime closed")

	// ErrInvalidConfig is wrapped by Config.Validate failures.
	ErrInvalidConfig = errors.New("coop: invalid config")
)

// JoinErrorKind classifies abnormal task termination.
type JoinErrorKind uint8

const (
	// JoinPanic: the task's step panicked.
	JoinPanic JoinErrorKind = iota + 1
	// JoinCancelled: the task was aborted or its runtime closed.
	JoinCancelled
)

func (k JoinErrorKind) String() string {
	switch k {
	case JoinPanic:
		return "panic"
	case JoinCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("JoinErrorKind(%d)", uint8(k))
}

// JoinError reports a task that did not run to completion.
// It is delivered through the task's JoinHandle; the worker keeps running.
type JoinError struct {
	ID    TaskID
	Kind  JoinErrorKind
	Value any    // recovered panic value, nil when cancelled
	Stack []byte // stack at the panic site, nil when cancelled
}

func (e *JoinError) Error() string {
	if e.Kind == JoinPanic {
		return fmt.Sprintf("coop: task %d panicked: %v", e.ID, e.Value)
	}
	return fmt.Sprintf("coop: task %d %s", e.ID, e.Kind)
}

// Unwrap returns the panic value when it is an error.
func (e *JoinError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic reports whether the task panicked.
func (e *JoinError) IsPanic() bool { return e.Kind == JoinPanic }

// IsCancelled reports whether the task was cancelled.
func (e *JoinError) IsCancelled() bool { return e.Kind == JoinCancelled }

func cancelledError(id TaskID) *JoinError {
	return &JoinError{ID: id, Kind: JoinCancelled}
}

// pollCatching polls f once, converting a panic into a *JoinError.
// pending reports transient non-readiness.
func pollCatching[T any](id TaskID, f Future[T], cx *Context) (v T, err error, pending bool) {
	ok := false
	defer func() {
		if ok {
			return
		}
		r := recover()
		if r == nil {
			panic("coop: runtime.Goexit inside a task is not supported")
		}
		var zero T
		v, err, pending = zero, &JoinError{ID: id, Kind: JoinPanic, Value: r, Stack: debug.Stack()}, false
	}()
	v, err = f.Poll(cx)
	ok = true
	return v, err, isWouldBlock(err)
}
