package main

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the solved tables to a parquet file",
	Long: `Solve the configured board and write one row per state: the state id, its
win probability and the optimal action at every elapsed time. The board,
goal and horizon are stored in the file metadata, so play, serve and inspect
can load the file with --table instead of solving again.

Examples:
  lite2048 export tables/2x3.parquet
  lite2048 export --preset square tables/3x3.parquet`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}

	if err := solveAndExport(cfg, newLogger(), args[0]); err != nil {
		fail("exporting tables", err)
	}
}
