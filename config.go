// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"
	"math"
)

const (
	// DefaultMaxTasksPerTick bounds how many queued tasks run between two
	// polls of the root future.
	DefaultMaxTasksPerTick = 61

	// DefaultRemoteFirstInterval: every this many ticks the injection queue
	// is checked before the local queue.
	DefaultRemoteFirstInterval = 31

	// BudgetUnconstrained disables the cooperative budget when used as
	// Config.Budget.
	BudgetUnconstrained = -1
)

// Config configures a Runtime. Zero fields take their defaults.
type Config struct {
	// MaxTasksPerTick is the number of queued tasks run per scheduler tick.
	// It must not be a multiple of RemoteFirstInterval, otherwise the queue
	// preference would line up with tick boundaries and starve one queue.
	MaxTasksPerTick int

	// RemoteFirstInterval selects how often the injection queue is preferred.
	RemoteFirstInterval int

	// Budget is the number of poll units per top-level poll, 1 to 255, or
	// BudgetUnconstrained.
	Budget int

	// InitialQueueCapacity sizes the local run queue.
	InitialQueueCapacity int

	// InjectCapacity sizes the bounded injection ring; overflow spills into
	// an unbounded list.
	InjectCapacity int

	// Park is what the scheduler blocks on. Nil means a new ParkThread.
	Park Park

	// Logger receives runtime diagnostics. Nil discards them.
	Logger Logger
}

// DefaultConfig returns the configuration New uses for zero fields.
func DefaultConfig() Config {
	return Config{
		MaxTasksPerTick:      DefaultMaxTasksPerTick,
		RemoteFirstInterval:  DefaultRemoteFirstInterval,
		Budget:               DefaultBudget,
		InitialQueueCapacity: DefaultQueueCapacity,
		InjectCapacity:       DefaultInjectCapacity,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxTasksPerTick == 0 {
		c.MaxTasksPerTick = d.MaxTasksPerTick
	}
	if c.RemoteFirstInterval == 0 {
		c.RemoteFirstInterval = d.RemoteFirstInterval
	}
	if c.Budget == 0 {
		c.Budget = d.Budget
	}
	if c.InitialQueueCapacity == 0 {
		c.InitialQueueCapacity = d.InitialQueueCapacity
	}
	if c.InjectCapacity == 0 {
		c.InjectCapacity = d.InjectCapacity
	}
	if c.Park == nil {
		c.Park = NewParkThread()
	}
	if c.Logger == nil {
		c.Logger = NewNoOpLogger()
	}
	return c
}

// Validate reports whether c, with defaults applied, is usable.
// Failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	c = c.withDefaults()
	switch {
	case c.MaxTasksPerTick < 1:
		return fmt.Errorf("%w: MaxTasksPerTick %d < 1", ErrInvalidConfig, c.MaxTasksPerTick)
	case c.RemoteFirstInterval < 1 || uint64(c.RemoteFirstInterval) > math.MaxUint32:
		return fmt.Errorf("%w: RemoteFirstInterval %d out of range", ErrInvalidConfig, c.RemoteFirstInterval)
	case c.MaxTasksPerTick%c.RemoteFirstInterval == 0:
		return fmt.Errorf("%w: MaxTasksPerTick %d is a multiple of RemoteFirstInterval %d",
			ErrInvalidConfig, c.MaxTasksPerTick, c.RemoteFirstInterval)
	case c.Budget != BudgetUnconstrained && (c.Budget < 1 || c.Budget > math.MaxUint8):
		return fmt.Errorf("%w: Budget %d out of range", ErrInvalidConfig, c.Budget)
	case c.InitialQueueCapacity < 1:
		return fmt.Errorf("%w: InitialQueueCapacity %d < 1", ErrInvalidConfig, c.InitialQueueCapacity)
	case c.InjectCapacity < 2:
		return fmt.Errorf("%w: InjectCapacity %d < 2", ErrInvalidConfig, c.InjectCapacity)
	}
	return nil
}

func (c Config) budget() Budget {
	if c.Budget == BudgetUnconstrained {
		return UnconstrainedBudget()
	}
	return NewBudget(uint8(c.Budget))
}
