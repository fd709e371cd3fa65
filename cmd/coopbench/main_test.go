// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code.hybscloud.com/coop"
	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
)

func TestLoadWorkloadDefaults(t *testing.T) {
	w, err := loadWorkload("")
	if err != nil {
		t.Fatal(err)
	}
	if w.Producers != 4 || w.Runtime.MaxTasksPerTick != coop.DefaultMaxTasksPerTick {
		t.Fatalf("defaults got %+v", w)
	}
}

func TestLoadWorkloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	data := "producers = 2\nmessages = 50\n\n[runtime]\nbudget = 16\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := loadWorkload(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.Producers != 2 || w.Messages != 50 || w.Runtime.Budget != 16 {
		t.Fatalf("got %+v", w)
	}
	// Unset keys keep their defaults.
	if w.Tasks != defaultWorkload().Tasks {
		t.Fatalf("tasks got %d, want default", w.Tasks)
	}
}

func TestLoadWorkloadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	if err := os.WriteFile(path, []byte("producer = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadWorkload(path); err == nil || !strings.Contains(err.Error(), "producer") {
		t.Fatalf("got %v, want unknown key error", err)
	}
}

func TestWorkloadValidate(t *testing.T) {
	w := defaultWorkload()
	w.Producers = 0
	if err := w.validate(); err == nil {
		t.Fatal("zero producers accepted")
	}
	w = defaultWorkload()
	w.Runtime.Budget = 300
	if err := w.validate(); err == nil {
		t.Fatal("budget 300 accepted")
	}
}

func TestRunWorkload(t *testing.T) {
	w := defaultWorkload()
	w.Producers, w.Messages, w.Tasks, w.Yields = 3, 500, 10, 5

	rep, err := runWorkload(context.Background(), w, w.coopConfig())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Sent != 1500 || rep.Received != 1500 || rep.OutOfOrder != 0 {
		t.Fatalf("got %+v", rep)
	}
	if rep.TaskSteps != 50 {
		t.Fatalf("task steps got %d, want 50", rep.TaskSteps)
	}
	if rep.Stats.Spawned != 10 || rep.Stats.Released != 10 {
		t.Fatalf("stats got %+v", rep.Stats)
	}
}

func TestReportRoundTrip(t *testing.T) {
	w := defaultWorkload()
	w.Producers, w.Messages, w.Tasks = 1, 10, 1
	rep, err := runWorkload(context.Background(), w, w.coopConfig())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "report.msgpack")
	if err := writeReport(path, rep); err != nil {
		t.Fatal(err)
	}
	got, err := readReport(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Received != rep.Received || got.Stats != rep.Stats || !got.FinishedAtUTC.Equal(rep.FinishedAtUTC) {
		t.Fatalf("got %+v, want %+v", got, rep)
	}
}

func TestPrintReport(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printReport(&buf, report{Producers: 2, Sent: 4, Received: 4})
	out := buf.String()
	if !strings.HasPrefix(out, "coopbench ok") || !strings.Contains(out, "4/4") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--color", "off", "config"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var w workload
	if _, err := toml.Decode(buf.String(), &w); err != nil {
		t.Fatalf("config output is not TOML: %v\n%s", err, buf.String())
	}
	if w != defaultWorkload() {
		t.Fatalf("got %+v, want defaults", w)
	}
}
