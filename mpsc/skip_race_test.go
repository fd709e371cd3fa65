// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mpsc_test

import "testing"

// skipRace skips tests whose producers and consumer hand values over
// through atomix and lfq. The race detector cannot see their cross-variable
// memory ordering and reports false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: lock-free list uses cross-variable memory ordering")
}
