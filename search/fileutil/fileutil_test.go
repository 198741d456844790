package fileutil

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONFileAtomic_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	in := map[string]int{"a": 1, "b": 2}
	if err := WriteJSONFileAtomic(path, in, true); err != nil {
		t.Fatalf("WriteJSONFileAtomic: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out map[string]int
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Fatalf("out=%v", out)
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries=%v", entries)
	}
}

func TestAppendJSONLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.jsonl")
	for i := 0; i < 3; i++ {
		if err := AppendJSONLine(path, map[string]int{"n": i}); err != nil {
			t.Fatalf("AppendJSONLine: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]int
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if rec["n"] != lines {
			t.Fatalf("line %d: rec=%v", lines, rec)
		}
		lines++
	}
	if lines != 3 {
		t.Fatalf("lines=%d", lines)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f")
	if FileExists(path) {
		t.Fatalf("missing file reported as existing")
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(path) {
		t.Fatalf("existing file reported as missing")
	}
}
