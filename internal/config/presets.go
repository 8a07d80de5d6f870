package config

import (
	"fmt"
	"slices"
)

// Preset is a named board and goal combination known to solve quickly.
type Preset string

const (
	PresetTiny   Preset = "tiny"   // 2x2 to 32, 1296 states
	PresetSmall  Preset = "small"  // 2x3 to 32, 46656 states
	PresetSquare Preset = "square" // 3x3 to 16, about 2M states
	PresetWide   Preset = "wide"   // 2x4 to 64, about 5.7M states
)

type presetSpec struct {
	rows, cols int
	win        int
}

var presets = map[Preset]presetSpec{
	PresetTiny:   {rows: 2, cols: 2, win: 5},
	PresetSmall:  {rows: 2, cols: 3, win: 5},
	PresetSquare: {rows: 3, cols: 3, win: 4},
	PresetWide:   {rows: 2, cols: 4, win: 6},
}

// Presets returns the preset names in a stable order.
func Presets() []Preset {
	names := make([]Preset, 0, len(presets))
	for p := range presets {
		names = append(names, p)
	}
	slices.Sort(names)
	return names
}

// ApplyPreset overwrites the board and goal with a preset. WinMax follows
// the win exponent and Horizon is reset so Normalize recomputes it.
func ApplyPreset(cfg *Config, p Preset) error {
	preset, ok := presets[p]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, p)
	}
	cfg.Board = BoardConfig{Rows: preset.rows, Cols: preset.cols}
	cfg.WinExponent = preset.win
	cfg.WinMax = preset.win
	cfg.Horizon = 0
	return nil
}
