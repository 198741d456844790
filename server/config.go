package server

import (
	"fmt"
	"os"
)

// Config carries everything the HTTP server needs, read from the
// environment. Callers load a .env file first if they want one.
type Config struct {
	Port          string
	LibraryDir    string
	UploadDir     string
	CachePath     string
	ReferencePath string
	FeedbackPath  string
	HistoryDBPath string
	LogDir        string
	OpenAIAPIKey  string
	Model         string
}

// ConfigFromEnv reads the configuration, applying defaults for everything
// except the photo library and the API key.
func ConfigFromEnv() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		LibraryDir:    os.Getenv("PHOTO_LIBRARY_DIR"),
		UploadDir:     envOr("UPLOAD_DIR", "uploaded_images"),
		CachePath:     envOr("EMOTION_CACHE_PATH", "emotion_cache.json"),
		ReferencePath: envOr("REFERENCE_PHOTO_PATH", "reference_photo.jpg"),
		FeedbackPath:  envOr("FEEDBACK_LOG_PATH", "session_results.jsonl"),
		HistoryDBPath: envOr("HISTORY_DB_PATH", "query_history.db"),
		LogDir:        os.Getenv("LOG_DIR"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:         envOr("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

func (c Config) Validate() error {
	if c.LibraryDir == "" {
		return fmt.Errorf("PHOTO_LIBRARY_DIR is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
