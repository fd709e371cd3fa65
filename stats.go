// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/atomix"

type stats struct {
	spawned   atomix.Uint64
	polled    atomix.Uint64
	completed atomix.Uint64
	released  atomix.Uint64
	injected  atomix.Uint64
	parked    atomix.Uint64
}

// Stats is a snapshot of a runtime's counters.
type Stats struct {
	// Spawned counts tasks spawned onto the runtime.
	Spawned uint64
	// Polled counts task steps.
	Polled uint64
	// Completed counts tasks that finished, including failed and cancelled ones.
	Completed uint64
	// Released counts task cells whose last reference was dropped.
	Released uint64
	// Injected counts submissions through the injection queue: remote
	// spawns and every wake of an idle task, including wakes issued by
	// other tasks of the same runtime.
	Injected uint64
	// Spilled counts injections that overflowed the bounded ring.
	Spilled uint64
	// Parked counts Park calls made when no task was runnable. A pending
	// unpark makes such a call return at once, so not every one blocked.
	Parked uint64
}
