// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/coop"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  coop.Config
		ok   bool
	}{
		{"zero", coop.Config{}, true},
		{"defaults", coop.DefaultConfig(), true},
		{"unconstrained budget", coop.Config{Budget: coop.BudgetUnconstrained}, true},
		{"budget 255", coop.Config{Budget: 255}, true},
		{"budget 256", coop.Config{Budget: 256}, false},
		{"negative budget", coop.Config{Budget: -2}, false},
		{"tick multiple of interval", coop.Config{MaxTasksPerTick: 62, RemoteFirstInterval: 31}, false},
		{"tick equals interval", coop.Config{MaxTasksPerTick: 7, RemoteFirstInterval: 7}, false},
		{"interval one", coop.Config{MaxTasksPerTick: 5, RemoteFirstInterval: 1}, false},
		{"custom tick", coop.Config{MaxTasksPerTick: 16, RemoteFirstInterval: 5}, true},
		{"negative tick", coop.Config{MaxTasksPerTick: -1}, false},
		{"negative interval", coop.Config{RemoteFirstInterval: -1}, false},
		{"inject capacity one", coop.Config{InjectCapacity: 1}, false},
		{"inject capacity two", coop.Config{InjectCapacity: 2}, true},
		{"negative queue capacity", coop.Config{InitialQueueCapacity: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, coop.ErrInvalidConfig) {
				t.Fatalf("Validate got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	rt, err := coop.New(coop.Config{Budget: 1000})
	if rt != nil || !errors.Is(err, coop.ErrInvalidConfig) {
		t.Fatalf("New got (%v, %v), want (nil, ErrInvalidConfig)", rt, err)
	}
}

func TestConfigLogger(t *testing.T) {
	var logged []string
	rt := newRuntime(t, coop.Config{Logger: recordLogger{&logged}})

	h := coop.Spawn(rt, coop.FutureFunc[int](func(*coop.Context) (int, error) {
		panic("logged")
	}))
	defer h.Drop()
	_, _ = coop.BlockOn(rt, h)

	if len(logged) != 1 || logged[0] != "WARN task panicked" {
		t.Fatalf("logged %q, want one panic warning", logged)
	}
}

type recordLogger struct {
	msgs *[]string
}

func (l recordLogger) Debug(msg string, _ ...coop.Field) { *l.msgs = append(*l.msgs, "DEBUG "+msg) }
func (l recordLogger) Info(msg string, _ ...coop.Field)  { *l.msgs = append(*l.msgs, "INFO "+msg) }
func (l recordLogger) Warn(msg string, _ ...coop.Field)  { *l.msgs = append(*l.msgs, "WARN "+msg) }
func (l recordLogger) Error(msg string, _ ...coop.Field) { *l.msgs = append(*l.msgs, "ERROR "+msg) }
