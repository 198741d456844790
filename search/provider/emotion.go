package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/photosense/sentimentsearch/search"
)

type emotionResponse struct {
	Happy    float64 `json:"happy" jsonschema_description:"Confidence percentage 0-100 that the dominant visible emotion is happiness."`
	Sad      float64 `json:"sad" jsonschema_description:"Confidence percentage 0-100 for sadness."`
	Angry    float64 `json:"angry" jsonschema_description:"Confidence percentage 0-100 for anger."`
	Surprise float64 `json:"surprise" jsonschema_description:"Confidence percentage 0-100 for surprise."`
	Fear     float64 `json:"fear" jsonschema_description:"Confidence percentage 0-100 for fear."`
	Disgust  float64 `json:"disgust" jsonschema_description:"Confidence percentage 0-100 for disgust."`
	Neutral  float64 `json:"neutral" jsonschema_description:"Confidence percentage 0-100 for a neutral expression."`
	Dominant string  `json:"dominant" jsonschema_description:"The single strongest label: happy, sad, angry, surprise, fear, disgust or neutral."`
}

var emotionSchema = generateSchema[emotionResponse]()

const emotionInstructions = `You classify the emotional tone of a photograph. Rate each of the seven
base emotions with a confidence percentage; the seven values should roughly sum to 100.
Never refuse: if no face is visible, estimate from the overall mood of the scene
(lighting, color, subject) on a best-effort basis.`

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Classify implements search.EmotionClassifier. The image travels inline as a
// base64 data URL.
func (c *Capabilities) Classify(ctx context.Context, imagePath string) (search.EmotionProfile, error) {
	dataURL, err := encodeImage(imagePath)
	if err != nil {
		return search.EmotionProfile{}, err
	}

	input := responses.ResponseInputItemUnionParam{
		OfMessage: &responses.EasyInputMessageParam{
			Role: responses.EasyInputMessageRoleUser,
			Content: responses.EasyInputMessageContentUnionParam{
				OfInputItemContentList: responses.ResponseInputMessageContentListParam{
					responses.ResponseInputContentUnionParam{
						OfInputText: &responses.ResponseInputTextParam{
							Text: "Classify the emotional tone of this photo.",
						},
					},
					responses.ResponseInputContentUnionParam{
						OfInputImage: &responses.ResponseInputImageParam{
							ImageURL: openai.String(dataURL),
							Detail:   responses.ResponseInputImageDetailLow,
						},
					},
				},
			},
		},
	}

	var out emotionResponse
	if err := c.structuredCall(ctx, "EmotionProfile", emotionSchema, emotionInstructions, input, &out); err != nil {
		return search.EmotionProfile{}, err
	}
	return profileFrom(out), nil
}

func profileFrom(out emotionResponse) search.EmotionProfile {
	scores := map[string]float64{
		"happy":    clampScore(out.Happy),
		"sad":      clampScore(out.Sad),
		"angry":    clampScore(out.Angry),
		"surprise": clampScore(out.Surprise),
		"fear":     clampScore(out.Fear),
		"disgust":  clampScore(out.Disgust),
		"neutral":  clampScore(out.Neutral),
	}
	dominant := strings.ToLower(strings.TrimSpace(out.Dominant))
	if !search.IsBaseEmotion(dominant) {
		// Best-effort: derive the dominant label from the scores instead of
		// failing the whole classification.
		dominant = dominantFrom(scores)
	}
	return search.EmotionProfile{Scores: scores, Dominant: dominant}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func dominantFrom(scores map[string]float64) string {
	best := "neutral"
	bestScore := -1.0
	for _, label := range search.BaseEmotions {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	return best
}

func encodeImage(imagePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(imagePath))
	mime, ok := mimeByExt[ext]
	if !ok {
		return "", fmt.Errorf("encode image: unsupported type %q", ext)
	}
	b, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
