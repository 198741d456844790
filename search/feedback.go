package search

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/photosense/sentimentsearch/search/fileutil"
)

// Feedback record types.
const (
	FeedbackSpeechToText = "speech_to_text"
	FeedbackImage        = "image"
)

// FeedbackRecord is one user-submitted ground-truth judgment, either about a
// parsed query field (speech_to_text) or about an image's emotion match
// (image). Records are append-only; the core pipeline never reads them.
type FeedbackRecord struct {
	Type       string    `json:"type"`
	Field      string    `json:"field,omitempty"`
	Predicted  string    `json:"predicted"`
	Expected   string    `json:"expected"`
	Path       string    `json:"path,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FeedbackLog appends ground-truth records to a JSONL file.
type FeedbackLog struct {
	Path string
}

// Append writes one record. The record's timestamp is set if zero.
func (l FeedbackLog) Append(rec FeedbackRecord) error {
	if l.Path == "" {
		return errors.New("FeedbackLog: path is empty")
	}
	if rec.Type != FeedbackSpeechToText && rec.Type != FeedbackImage {
		return fmt.Errorf("FeedbackLog: unknown record type %q", rec.Type)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	return fileutil.AppendJSONLine(l.Path, rec)
}

// EvaluationSummary aggregates a session's feedback records into per-type
// accuracy counts.
type EvaluationSummary struct {
	SpeechTotal   int `json:"speech_total"`
	SpeechCorrect int `json:"speech_correct"`
	ImageTotal    int `json:"image_total"`
	ImageCorrect  int `json:"image_correct"`
}

// SpeechAccuracy is the speech-to-text parsing accuracy in percent, 0 when no
// records exist.
func (s EvaluationSummary) SpeechAccuracy() float64 {
	if s.SpeechTotal == 0 {
		return 0
	}
	return float64(s.SpeechCorrect) / float64(s.SpeechTotal) * 100
}

// ImageAccuracy is the image sentiment matching accuracy in percent.
func (s EvaluationSummary) ImageAccuracy() float64 {
	if s.ImageTotal == 0 {
		return 0
	}
	return float64(s.ImageCorrect) / float64(s.ImageTotal) * 100
}

// EvaluateLog reads a feedback JSONL file and scores it. A speech record is
// correct when predicted equals expected. An image record is also correct when
// the predicted base emotion belongs to the expected term's blend set, since
// the classifier only ever emits base labels. A missing log file yields an
// empty summary; malformed lines are skipped.
func EvaluateLog(path string) (EvaluationSummary, error) {
	var summary EvaluationSummary
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return summary, nil
		}
		return summary, fmt.Errorf("EvaluateLog: open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec FeedbackRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		switch rec.Type {
		case FeedbackSpeechToText:
			summary.SpeechTotal++
			if strings.EqualFold(rec.Predicted, rec.Expected) {
				summary.SpeechCorrect++
			}
		case FeedbackImage:
			summary.ImageTotal++
			if imageMatches(rec.Predicted, rec.Expected) {
				summary.ImageCorrect++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("EvaluateLog: scan: %w", err)
	}
	return summary, nil
}

func imageMatches(predicted, expected string) bool {
	predicted = strings.ToLower(predicted)
	expected = strings.ToLower(expected)
	if predicted == expected {
		return true
	}
	for _, allowed := range ResolveBlend(expected) {
		if predicted == allowed {
			return true
		}
	}
	return false
}
