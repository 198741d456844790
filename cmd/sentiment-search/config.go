package main

import (
	"errors"
	"path/filepath"
)

type Config struct {
	LibraryDir    string
	UploadDir     string
	CachePath     string
	ReferencePath string
	FeedbackPath  string
	Model         string
	APIKey        string

	Display bool
	Offline bool
}

func (c Config) Validate() error {
	if c.LibraryDir == "" {
		return errors.New("missing -library")
	}
	if c.CachePath == "" {
		return errors.New("missing -cache")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		LibraryDir:    filepath.FromSlash("photos"),
		UploadDir:     filepath.FromSlash("uploaded_images"),
		CachePath:     "emotion_cache.json",
		ReferencePath: "reference_photo.jpg",
		FeedbackPath:  "session_results.jsonl",
		Model:         "gpt-4o-mini",
		Display:       true,
	}
}
