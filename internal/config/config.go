// Package config loads and validates lite2048 settings from YAML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/lite2048/internal/solver"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// DefaultMaxStates caps the state space so a typo in the board size fails
// fast instead of exhausting memory.
const DefaultMaxStates = 50_000_000

// Config is the complete lite2048 configuration.
type Config struct {
	Board       BoardConfig   `yaml:"board"`
	WinExponent int           `yaml:"win_exponent"` // 5 means a 32 tile wins
	WinMax      int           `yaml:"win_max"`      // largest exponent the tables index, 0 = win_exponent
	Horizon     int           `yaml:"horizon"`      // decision steps, 0 = heuristic
	Workers     int           `yaml:"workers"`      // 0 = one per CPU
	MaxStates   int           `yaml:"max_states"`
	Session     SessionConfig `yaml:"session"`
	Storage     StorageConfig `yaml:"storage"`
	Server      ServerConfig  `yaml:"server"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// SessionConfig defines interactive play.
type SessionConfig struct {
	Seed        int64 `yaml:"seed"`         // 0 = time based
	Hints       bool  `yaml:"hints"`        // show the suggested move
	AutoplayFPS int   `yaml:"autoplay_fps"` // moves per second when the policy plays itself
}

// StorageConfig defines where history is kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Normalize fills derived zero values: WinMax defaults to WinExponent and
// Horizon to DefaultHorizon.
func (c *Config) Normalize() {
	if c.WinMax == 0 {
		c.WinMax = c.WinExponent
	}
	if c.Horizon == 0 {
		c.Horizon = DefaultHorizon(c.Board.Rows, c.Board.Cols, c.WinExponent)
	}
	if c.MaxStates == 0 {
		c.MaxStates = DefaultMaxStates
	}
}

// Validate checks ranges and the size of the state space.
func (c Config) Validate() error {
	switch {
	case c.Board.Rows <= 0 || c.Board.Cols <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidConfig, c.Board.Rows, c.Board.Cols)
	case c.WinExponent < 1:
		return fmt.Errorf("%w: win_exponent %d < 1", ErrInvalidConfig, c.WinExponent)
	case c.WinMax < c.WinExponent || c.WinMax > 254:
		return fmt.Errorf("%w: win_max %d outside [%d,254]", ErrInvalidConfig, c.WinMax, c.WinExponent)
	case c.Horizon < 0:
		return fmt.Errorf("%w: horizon %d < 0", ErrInvalidConfig, c.Horizon)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d < 0", ErrInvalidConfig, c.Workers)
	case c.Session.AutoplayFPS < 0:
		return fmt.Errorf("%w: autoplay_fps %d < 0", ErrInvalidConfig, c.Session.AutoplayFPS)
	}

	if limit := c.MaxStates; limit > 0 {
		if _, ok := StateCount(c.Board.Rows, c.Board.Cols, c.WinMax, limit); !ok {
			return fmt.Errorf("%w: (%d+1)^%d states exceed max_states %d",
				ErrInvalidConfig, c.WinMax, c.Board.Rows*c.Board.Cols, limit)
		}
	}
	return nil
}

// StateCount returns (winMax+1)^(rows*cols), or false once it passes limit.
func StateCount(rows, cols, winMax, limit int) (int, bool) {
	states := 1
	for range rows * cols {
		if states > limit/(winMax+1) {
			return 0, false
		}
		states *= winMax + 1
	}
	return states, true
}

// DefaultHorizon is the horizon used when none is configured:
// 2^(win-1)/2 moves per cell.
func DefaultHorizon(rows, cols, winExponent int) int {
	if winExponent < 1 {
		return 0
	}
	return (1 << (winExponent - 1)) * rows * cols / 2
}

// SolverConfig converts the settings into solver parameters.
func (c Config) SolverConfig() solver.Config {
	return solver.Config{
		Rows:        c.Board.Rows,
		Cols:        c.Board.Cols,
		WinExponent: c.WinExponent,
		WinMax:      c.WinMax,
		Horizon:     c.Horizon,
		Workers:     c.Workers,
	}
}
