// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// vtable selects the type-specific operations of a task for the run queues
// and the owned set, which only see *header. JoinHandle[T] knows T and uses
// the harness directly. Each task type T has one zero-size implementation,
// rawVTable[T].
type vtable interface {
	poll(t *header, s *scheduler) (requeue bool)
	shutdown(t *header)
}

// rawVTable forwards to the harness of the concrete task type.
type rawVTable[T any] struct{}

func (rawVTable[T]) poll(t *header, s *scheduler) bool { return harnessOf[T](t).poll(s) }
func (rawVTable[T]) shutdown(t *header)                { harnessOf[T](t).shutdown() }

func (t *header) poll(s *scheduler) bool { return t.vtable.poll(t, s) }
func (t *header) shutdown()              { t.vtable.shutdown(t) }
