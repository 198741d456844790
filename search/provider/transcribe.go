package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
)

// Transcribe implements search.Transcriber by sending the audio file to the
// Whisper transcription endpoint.
func (c *Capabilities) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	defer f.Close()

	transcription, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  f,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return strings.TrimSpace(transcription.Text), nil
}
