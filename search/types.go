package search

import (
	"context"
	"time"
)

// Query is the structured intent extracted from one free-text request.
// Optional fields are nil when the text gave no opinion; a nil TopN means
// "return everything that matches".
type Query struct {
	Emotion  string  `json:"emotion"`
	Month    *string `json:"month,omitempty"`
	Year     *int    `json:"year,omitempty"`
	TopN     *int    `json:"top_n,omitempty"`
	Location *string `json:"location,omitempty"`
}

// EmotionProfile is the classifier output for one photo: per-base-emotion
// confidence percentages plus the dominant label. Immutable once computed.
type EmotionProfile struct {
	Scores   map[string]float64 `json:"scores"`
	Dominant string             `json:"dominant"`
}

// PhotoMetadata is what the metadata reader could recover from one image file.
// A nil field is a policy signal (include-by-default), not an error.
type PhotoMetadata struct {
	CapturedAt *time.Time
	Latitude   *float64
	Longitude  *float64
}

// RankedResult is one row of a ranking pass output.
type RankedResult struct {
	Path     string  `json:"path"`
	Dominant string  `json:"dominant_emotion"`
	Score    float64 `json:"score"`
}

// SkipReason says why a candidate photo fell out of a pass without matching.
type SkipReason string

const (
	SkipClassifyFailed SkipReason = "classify_failed"
	SkipZeroScore      SkipReason = "zero_score"
	SkipDateMismatch   SkipReason = "date_mismatch"
	SkipPlaceMismatch  SkipReason = "place_mismatch"
)

// Skip records one photo dropped from a pass, so failures are countable
// instead of only printed.
type Skip struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Err    string     `json:"error,omitempty"`
}

// Entity is one named entity recognized in the query text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// SentimentScorer rates the overall polarity of a text in [-1, 1].
type SentimentScorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// EmotionClassifier analyzes one image and returns its emotion profile.
// Implementations are best-effort: an image with no detectable subject still
// yields a profile rather than a refusal.
type EmotionClassifier interface {
	Classify(ctx context.Context, imagePath string) (EmotionProfile, error)
}

// EntityRecognizer extracts named entities from a text.
type EntityRecognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// ReverseGeocoder turns GPS coordinates into a human-readable address string.
// An empty address with a nil error means "no address known".
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// MetadataReader extracts capture time and GPS coordinates from an image file.
type MetadataReader interface {
	ReadMetadata(path string) (PhotoMetadata, error)
}

// Transcriber converts recorded audio into text. It sits outside the core
// pipeline; only the outer surfaces (server, CLI) consume it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Logger is the minimal leveled logging surface the pipeline needs. The zero
// value of nopLogger satisfies it for tests.
type Logger interface {
	Info(format string, v ...any)
	Warning(format string, v ...any)
	Error(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warning(string, ...any) {}
func (nopLogger) Error(string, ...any)   {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }
