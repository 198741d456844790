package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go/responses"
)

type polarityResponse struct {
	Polarity float64 `json:"polarity" jsonschema_description:"Overall sentiment polarity of the text, from -1.0 (strongly negative) to 1.0 (strongly positive)."`
}

var polaritySchema = generateSchema[polarityResponse]()

const polarityInstructions = `You rate the overall sentiment polarity of a short spoken request.
Return a single polarity value between -1.0 and 1.0 where -1.0 is strongly negative,
0.0 is neutral and 1.0 is strongly positive. Judge the emotional tone of the words,
not whether the request is polite.`

// Polarity implements search.SentimentScorer.
func (c *Capabilities) Polarity(ctx context.Context, text string) (float64, error) {
	if text == "" {
		return 0, errors.New("polarity: text is empty")
	}

	var out polarityResponse
	input := responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser)
	if err := c.structuredCall(ctx, "SentimentPolarity", polaritySchema, polarityInstructions, input, &out); err != nil {
		return 0, err
	}
	if out.Polarity > 1 {
		out.Polarity = 1
	}
	if out.Polarity < -1 {
		out.Polarity = -1
	}
	return out.Polarity, nil
}
