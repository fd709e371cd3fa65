// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"code.hybscloud.com/coop"
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// workload describes one benchmark run. Zero runtime fields fall back to the
// coop defaults.
type workload struct {
	Producers int `toml:"producers"`
	Messages  int `toml:"messages"`
	Tasks     int `toml:"tasks"`
	Yields    int `toml:"yields"`

	Runtime runtimeSection `toml:"runtime"`
}

type runtimeSection struct {
	MaxTasksPerTick     int `toml:"max_tasks_per_tick"`
	RemoteFirstInterval int `toml:"remote_first_interval"`
	Budget              int `toml:"budget"`
	InjectCapacity      int `toml:"inject_capacity"`
}

func defaultWorkload() workload {
	d := coop.DefaultConfig()
	return workload{
		Producers: 4,
		Messages:  10000,
		Tasks:     64,
		Yields:    16,
		Runtime: runtimeSection{
			MaxTasksPerTick:     d.MaxTasksPerTick,
			RemoteFirstInterval: d.RemoteFirstInterval,
			Budget:              d.Budget,
			InjectCapacity:      d.InjectCapacity,
		},
	}
}

// loadWorkload returns the defaults overlaid with path, if any.
func loadWorkload(path string) (workload, error) {
	w := defaultWorkload()
	if path == "" {
		return w, nil
	}
	meta, err := toml.DecodeFile(path, &w)
	if err != nil {
		return w, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return w, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return w, nil
}

func (w workload) validate() error {
	switch {
	case w.Producers < 1:
		return errors.New("producers must be at least 1")
	case w.Messages < 0:
		return errors.New("messages must not be negative")
	case w.Tasks < 0:
		return errors.New("tasks must not be negative")
	case w.Yields < 0:
		return errors.New("yields must not be negative")
	}
	return w.coopConfig().Validate()
}

func (w workload) coopConfig() coop.Config {
	return coop.Config{
		MaxTasksPerTick:     w.Runtime.MaxTasksPerTick,
		RemoteFirstInterval: w.Runtime.RemoteFirstInterval,
		Budget:              w.Runtime.Budget,
		InjectCapacity:      w.Runtime.InjectCapacity,
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective workload as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		w, err := loadWorkload(path)
		if err != nil {
			return err
		}
		if err := w.validate(); err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(w)
	},
}
