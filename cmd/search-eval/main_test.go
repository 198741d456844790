package main

import (
	"flag"
	"testing"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-log", "out.jsonl"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.LogPath != "out.jsonl" {
		t.Fatalf("LogPath=%q", cfg.LogPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (Config{}).Validate(); err == nil {
		t.Fatal("expected error for empty log path")
	}
}
