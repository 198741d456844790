package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/photosense/sentimentsearch/search"
)

type Config struct {
	LogPath string
}

func (c Config) Validate() error {
	if c.LogPath == "" {
		return fmt.Errorf("missing -log")
	}
	return nil
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	summary, err := search.EvaluateLog(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Printf("speech_total=%d speech_correct=%d speech_accuracy=%.1f%%\n",
		summary.SpeechTotal, summary.SpeechCorrect, summary.SpeechAccuracy())
	fmt.Printf("image_total=%d image_correct=%d image_accuracy=%.1f%%\n",
		summary.ImageTotal, summary.ImageCorrect, summary.ImageAccuracy())
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{LogPath: "session_results.jsonl"}
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "Path to the session feedback log (.jsonl)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
