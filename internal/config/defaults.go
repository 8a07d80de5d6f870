package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/lite2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration: the 2x3 board playing for a
// 32 tile.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows: 2,
			Cols: 3,
		},
		WinExponent: 5,
		WinMax:      5,
		Horizon:     0,
		Workers:     0,
		MaxStates:   DefaultMaxStates,
		Session: SessionConfig{
			Seed:        0,
			Hints:       true,
			AutoplayFPS: 4,
		},
		Storage: StorageConfig{
			DBPath: "~/.lite2048/history.db",
		},
		Server: ServerConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
