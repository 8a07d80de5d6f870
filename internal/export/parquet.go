// Package export writes solved tables to Parquet and reads them back, so a
// large board is solved once and played many times.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/solver"
)

// Schema identifies the file layout in the key-value metadata.
const Schema = "lite2048_table_v1"

const batchSize = 4096

// ErrFormat is returned for files that are not lite2048 tables or are inconsistent.
var ErrFormat = errors.New("export: bad table file")

// StateRow is one state of the solved table.
//
// Actions[t] is the policy at elapsed time t, encoded as game.Action
// (0=Up, 1=Down, 2=Left, 3=Right, 4=None). Value is the time-0 value.
type StateRow struct {
	StateID int64   `parquet:"state_id"`
	Value   float64 `parquet:"value"`
	Actions []byte  `parquet:"actions"`
}

// Write stores res at outPath. The file is written to a temp path and
// renamed, so readers never see a partial table.
func Write(outPath string, res *solver.Result) error {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create output dir: %w", err)
		}
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("export: open tmp parquet: %w", err)
	}

	if err := writeRows(f, res); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	_ = f.Sync()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: close parquet file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("export: rename parquet: %w", err)
	}
	return nil
}

func writeRows(f *os.File, res *solver.Result) error {
	w := parquet.NewGenericWriter[StateRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", Schema)
	w.SetKeyValueMetadata("rows", strconv.Itoa(res.Codec.Rows()))
	w.SetKeyValueMetadata("cols", strconv.Itoa(res.Codec.Cols()))
	w.SetKeyValueMetadata("win_exponent", strconv.Itoa(res.WinExponent))
	w.SetKeyValueMetadata("win_max", strconv.Itoa(res.Codec.WinMax()))
	w.SetKeyValueMetadata("horizon", strconv.Itoa(res.Horizon))
	w.SetKeyValueMetadata("solve_ms", strconv.FormatInt(res.Elapsed.Milliseconds(), 10))

	states := res.Codec.States()
	buf := make([]StateRow, 0, batchSize)
	for id := range states {
		actions := make([]byte, res.Horizon)
		for t := range res.Horizon {
			actions[t] = byte(res.Policy[t][id])
		}
		buf = append(buf, StateRow{
			StateID: int64(id),
			Value:   res.Values[id],
			Actions: actions,
		})

		if len(buf) == batchSize || id == states-1 {
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("export: write parquet: %w", err)
			}
			buf = buf[:0]
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("export: close parquet writer: %w", err)
	}
	return nil
}

// Read loads a table written by Write.
func Read(path string) (*solver.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if schema, _ := pf.Lookup("schema"); schema != Schema {
		return nil, fmt.Errorf("%w: schema %q", ErrFormat, schema)
	}

	meta, err := readMeta(pf)
	if err != nil {
		return nil, err
	}

	if meta.win < 1 || meta.win > meta.winMax {
		return nil, fmt.Errorf("%w: win exponent %d with win max %d", ErrFormat, meta.win, meta.winMax)
	}
	codec, err := game.NewCodec(meta.rows, meta.cols, meta.winMax)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	states := codec.States()
	if pf.NumRows() != int64(states) {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrFormat, pf.NumRows(), states)
	}

	res := &solver.Result{
		Codec:       codec,
		WinExponent: meta.win,
		Horizon:     meta.horizon,
		Values:      make([]float64, states),
		Policy:      make([][]game.Action, meta.horizon),
		Elapsed:     time.Duration(meta.solveMS) * time.Millisecond,
	}
	for t := range res.Policy {
		res.Policy[t] = make([]game.Action, states)
	}

	reader := parquet.NewGenericReader[StateRow](pf)
	defer reader.Close()

	seen := make([]bool, states)
	buf := make([]StateRow, batchSize)
	for {
		n, err := reader.Read(buf)
		for _, row := range buf[:n] {
			if err := fill(res, row, seen); err != nil {
				return nil, err
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: read parquet: %w", err)
		}
	}

	for id, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: state %d missing", ErrFormat, id)
		}
	}
	return res, nil
}

// fill copies one row into res. Every state id must appear exactly once.
func fill(res *solver.Result, row StateRow, seen []bool) error {
	if row.StateID < 0 || row.StateID >= int64(len(res.Values)) {
		return fmt.Errorf("%w: state id %d", ErrFormat, row.StateID)
	}
	if seen[row.StateID] {
		return fmt.Errorf("%w: state %d repeated", ErrFormat, row.StateID)
	}
	seen[row.StateID] = true
	if len(row.Actions) != res.Horizon {
		return fmt.Errorf("%w: state %d has %d actions, want %d", ErrFormat, row.StateID, len(row.Actions), res.Horizon)
	}

	res.Values[row.StateID] = row.Value
	for t, a := range row.Actions {
		if a > byte(game.None) {
			return fmt.Errorf("%w: state %d action %d", ErrFormat, row.StateID, a)
		}
		res.Policy[t][row.StateID] = game.Action(a)
	}
	return nil
}

type tableMeta struct {
	rows, cols  int
	win, winMax int
	horizon     int
	solveMS     int64
}

func readMeta(pf *parquet.File) (tableMeta, error) {
	var meta tableMeta
	ints := []struct {
		key string
		dst *int
	}{
		{"rows", &meta.rows},
		{"cols", &meta.cols},
		{"win_exponent", &meta.win},
		{"win_max", &meta.winMax},
		{"horizon", &meta.horizon},
	}
	for _, kv := range ints {
		raw, ok := pf.Lookup(kv.key)
		if !ok {
			return meta, fmt.Errorf("%w: missing %s", ErrFormat, kv.key)
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return meta, fmt.Errorf("%w: %s = %q", ErrFormat, kv.key, raw)
		}
		*kv.dst = v
	}

	// solve_ms is informational
	if raw, ok := pf.Lookup("solve_ms"); ok {
		meta.solveMS, _ = strconv.ParseInt(raw, 10, 64)
	}
	return meta, nil
}
