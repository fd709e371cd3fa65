// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc_test

import (
	"strings"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/coop"
)

func newRuntime(tb testing.TB, cfg coop.Config) *coop.Runtime {
	tb.Helper()
	rt, err := coop.New(cfg)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	tb.Cleanup(rt.Close)
	return rt
}

type countingWaker struct {
	n atomix.Int64
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func collect[T any](acc []T, v T) []T { return append(acc, v) }

func mustPanic(tb testing.TB, want string, f func()) {
	tb.Helper()
	defer func() {
		tb.Helper()
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			tb.Fatalf("got panic %v, want one containing %q", r, want)
		}
	}()
	f()
}
