package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/photosense/sentimentsearch/search"
	"github.com/photosense/sentimentsearch/search/exifmeta"
	"github.com/photosense/sentimentsearch/search/lexical"
	"github.com/photosense/sentimentsearch/search/provider"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	caps := provider.New(apiKey, cfg.Model)

	var scorer search.SentimentScorer = caps
	var entities search.EntityRecognizer = caps
	if cfg.Offline {
		scorer = lexical.New()
		entities = nil
	}

	pipeline := search.Pipeline{
		Extractor:     search.Extractor{Sentiment: scorer, Entities: entities},
		Filter:        search.Filter{Meta: exifmeta.NewReader(), Geocode: exifmeta.NewGeocoder()},
		Ranker:        search.Ranker{Classifier: caps},
		LibraryDir:    cfg.LibraryDir,
		UploadDir:     cfg.UploadDir,
		CachePath:     cfg.CachePath,
		ReferencePath: cfg.ReferencePath,
	}
	feedback := search.FeedbackLog{Path: cfg.FeedbackPath}

	fmt.Println("Describe the photos you want to see. Type 'capture' to take a")
	fmt.Println("reference photo, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return
		case line == "capture":
			if err := captureReferencePhoto(cfg.ReferencePath); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				continue
			}
			fmt.Printf("reference photo saved to %s\n", cfg.ReferencePath)
			continue
		}

		resp := pipeline.ProcessQuery(ctx, line, nil)
		printResults(resp)

		if cfg.Display {
			for _, r := range resp.Results {
				title := fmt.Sprintf("%s (%s %.0f)", filepath.Base(r.Path), r.Dominant, r.Score)
				if err := showPhoto(r.Path, title); err != nil {
					fmt.Fprintln(os.Stderr, err.Error())
				}
			}
		}

		if len(resp.Results) > 0 {
			recordFeedback(scanner, feedback, resp)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func printResults(resp search.Response) {
	if len(resp.Results) == 0 {
		fmt.Println("no matching photos")
		return
	}
	fmt.Printf("emotion=%s results=%d\n", resp.Query.Emotion, len(resp.Results))
	for i, r := range resp.Results {
		fmt.Printf("%2d. %s (%s %.1f)\n", i+1, r.Path, r.Dominant, r.Score)
	}
	for _, s := range resp.Skipped {
		fmt.Printf("    skipped %s: %s\n", s.Path, s.Reason)
	}
}

// recordFeedback asks whether the top result matched and appends the answer
// to the session log.
func recordFeedback(scanner *bufio.Scanner, feedback search.FeedbackLog, resp search.Response) {
	top := resp.Results[0]
	fmt.Print("Did the top photo match? (y/n/skip) ")
	if !scanner.Scan() {
		return
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))

	rec := search.FeedbackRecord{
		Type:      search.FeedbackImage,
		Predicted: top.Dominant,
		Path:      top.Path,
	}
	switch answer {
	case "y":
		rec.Expected = resp.Query.Emotion
	case "n":
		fmt.Print("What emotion did you expect? ")
		if !scanner.Scan() {
			return
		}
		rec.Expected = strings.ToLower(strings.TrimSpace(scanner.Text()))
	default:
		return
	}

	if err := feedback.Append(rec); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.LibraryDir, "library", cfg.LibraryDir, "Photo library directory to search")
	fs.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "Scratch directory for per-query uploads")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "Path to the emotion analysis cache file")
	fs.StringVar(&cfg.ReferencePath, "reference", cfg.ReferencePath, "Path for the captured reference photo")
	fs.StringVar(&cfg.FeedbackPath, "feedback", cfg.FeedbackPath, "Path for the session feedback log")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.BoolVar(&cfg.Display, "display", cfg.Display, "Show matching photos in a window")
	fs.BoolVar(&cfg.Offline, "offline", false, "Use the built-in lexicon for sentiment instead of the API")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.LibraryDir = filepath.Clean(cfg.LibraryDir)
	cfg.UploadDir = filepath.Clean(cfg.UploadDir)
	return cfg, nil
}
