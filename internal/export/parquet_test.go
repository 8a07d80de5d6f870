package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/vovakirdan/lite2048/internal/solver"
)

func solved(t *testing.T, cfg solver.Config) *solver.Result {
	t.Helper()
	s, err := solver.New(cfg)
	if err != nil {
		t.Fatalf("solver.New() failed: %v", err)
	}
	res, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	return res
}

func TestWriteReadTable(t *testing.T) {
	// 2x3 spans several write batches.
	for _, cfg := range []solver.Config{
		{Rows: 2, Cols: 2, WinExponent: 4, WinMax: 5, Horizon: 5},
		{Rows: 2, Cols: 3, WinExponent: 5, WinMax: 5, Horizon: 2},
		{Rows: 1, Cols: 3, WinExponent: 3, WinMax: 3, Horizon: 0},
	} {
		want := solved(t, cfg)
		path := filepath.Join(t.TempDir(), "tables", "table.parquet")

		if err := Write(path, want); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Error("temp file left behind")
		}

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read() failed: %v", err)
		}

		if got.Codec.Rows() != cfg.Rows || got.Codec.Cols() != cfg.Cols || got.Codec.WinMax() != cfg.WinMax {
			t.Errorf("codec %dx%d/%d, want %dx%d/%d",
				got.Codec.Rows(), got.Codec.Cols(), got.Codec.WinMax(), cfg.Rows, cfg.Cols, cfg.WinMax)
		}
		if got.WinExponent != want.WinExponent || got.Horizon != want.Horizon {
			t.Errorf("win %d horizon %d, want %d and %d", got.WinExponent, got.Horizon, want.WinExponent, want.Horizon)
		}
		for id := range want.Values {
			if got.Values[id] != want.Values[id] {
				t.Fatalf("Values[%d] = %v, want %v", id, got.Values[id], want.Values[id])
			}
		}
		for step := range want.Policy {
			for id := range want.Policy[step] {
				if got.Policy[step][id] != want.Policy[step][id] {
					t.Fatalf("Policy[%d][%d] = %v, want %v", step, id, got.Policy[step][id], want.Policy[step][id])
				}
			}
		}
	}
}

func TestReadRejectsForeignFiles(t *testing.T) {
	dir := t.TempDir()

	type other struct {
		Name string `parquet:"name"`
	}
	foreign := filepath.Join(dir, "other.parquet")
	if err := parquet.WriteFile(foreign, []other{{Name: "x"}},
		parquet.KeyValueMetadata("schema", "something_else"),
	); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := Read(foreign); !errors.Is(err, ErrFormat) {
		t.Errorf("Read(foreign) err = %v, want ErrFormat", err)
	}

	garbage := filepath.Join(dir, "garbage.parquet")
	if err := os.WriteFile(garbage, []byte("not parquet"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(garbage); err == nil {
		t.Error("Read(garbage) should fail")
	}

	if _, err := Read(filepath.Join(dir, "missing.parquet")); err == nil {
		t.Error("Read(missing) should fail")
	}
}

func TestReadRejectsWrongRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.parquet")
	rows := []StateRow{{StateID: 0, Value: 0, Actions: []byte{4}}}
	if err := parquet.WriteFile(path, rows,
		parquet.KeyValueMetadata("schema", Schema),
		parquet.KeyValueMetadata("rows", "2"),
		parquet.KeyValueMetadata("cols", "2"),
		parquet.KeyValueMetadata("win_exponent", "3"),
		parquet.KeyValueMetadata("win_max", "3"),
		parquet.KeyValueMetadata("horizon", "1"),
	); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := Read(path); !errors.Is(err, ErrFormat) {
		t.Errorf("Read(short) err = %v, want ErrFormat", err)
	}
}

func TestReadRejectsRepeatedStates(t *testing.T) {
	// A 1x1 board with WinMax 1 has states 0 and 1; state 1 is replaced by a copy of 0.
	path := filepath.Join(t.TempDir(), "repeated.parquet")
	rows := []StateRow{
		{StateID: 0, Value: 0, Actions: []byte{4}},
		{StateID: 0, Value: 0, Actions: []byte{4}},
	}
	if err := parquet.WriteFile(path, rows,
		parquet.KeyValueMetadata("schema", Schema),
		parquet.KeyValueMetadata("rows", "1"),
		parquet.KeyValueMetadata("cols", "1"),
		parquet.KeyValueMetadata("win_exponent", "1"),
		parquet.KeyValueMetadata("win_max", "1"),
		parquet.KeyValueMetadata("horizon", "1"),
	); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := Read(path); !errors.Is(err, ErrFormat) {
		t.Errorf("Read(repeated) err = %v, want ErrFormat", err)
	}
}
