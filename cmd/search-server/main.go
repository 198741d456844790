package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/photosense/sentimentsearch/search"
	"github.com/photosense/sentimentsearch/search/exifmeta"
	"github.com/photosense/sentimentsearch/search/provider"
	"github.com/photosense/sentimentsearch/server"
	"github.com/photosense/sentimentsearch/server/logger"
	"github.com/photosense/sentimentsearch/store"
)

func main() {
	// Optional, for local dev.
	_ = godotenv.Load()

	cfg := server.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logs, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	history, err := store.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer history.Close()

	caps := provider.New(cfg.OpenAIAPIKey, cfg.Model)

	srv := &server.Server{
		Pipeline: search.Pipeline{
			Extractor:     search.Extractor{Sentiment: caps, Entities: caps, Log: logs},
			Filter:        search.Filter{Meta: exifmeta.NewReader(), Geocode: exifmeta.NewGeocoder(), Log: logs},
			Ranker:        search.Ranker{Classifier: caps, Log: logs},
			LibraryDir:    cfg.LibraryDir,
			UploadDir:     cfg.UploadDir,
			CachePath:     cfg.CachePath,
			ReferencePath: cfg.ReferencePath,
			Log:           logs,
		},
		Transcriber: caps,
		Feedback:    &search.FeedbackLog{Path: cfg.FeedbackPath},
		History:     history,
		LibraryDir:  cfg.LibraryDir,
		Log:         logs,
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		fmt.Printf("Photo search server running on port %s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
