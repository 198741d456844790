package main

import (
	"flag"
	"testing"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-library", "vacation",
		"-cache", "cache.json",
		"-model", "gpt-4o",
		"-display=false",
		"-offline",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.LibraryDir != "vacation" {
		t.Fatalf("LibraryDir=%q", cfg.LibraryDir)
	}
	if cfg.CachePath != "cache.json" {
		t.Fatalf("CachePath=%q", cfg.CachePath)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("Model=%q", cfg.Model)
	}
	if cfg.Display {
		t.Fatal("Display should be false")
	}
	if !cfg.Offline {
		t.Fatal("Offline should be true")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if err := (Config{CachePath: "c.json", Model: "m"}).Validate(); err == nil {
		t.Fatal("expected error for missing library")
	}
	if err := (Config{LibraryDir: "photos", Model: "m"}).Validate(); err == nil {
		t.Fatal("expected error for missing cache path")
	}
	if err := (Config{LibraryDir: "photos", CachePath: "c.json"}).Validate(); err == nil {
		t.Fatal("expected error for missing model")
	}
}
