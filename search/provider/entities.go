package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go/responses"

	"github.com/photosense/sentimentsearch/search"
)

type entityItem struct {
	Text  string `json:"text" jsonschema_description:"The entity exactly as it appears in the input text."`
	Label string `json:"label" jsonschema_description:"Entity type label: GPE for countries/cities/states, LOC for non-political locations, FAC for buildings and facilities, DATE, PERSON, ORG or OTHER."`
}

type entitiesResponse struct {
	Entities []entityItem `json:"entities"`
}

var entitiesSchema = generateSchema[entitiesResponse]()

const entitiesInstructions = `You are a named-entity recognizer. Extract every named entity from the
input text in order of appearance and label each with one of: GPE, LOC, FAC, DATE, PERSON, ORG, OTHER.
Return an empty list when the text names no entities.`

// Entities implements search.EntityRecognizer.
func (c *Capabilities) Entities(ctx context.Context, text string) ([]search.Entity, error) {
	if text == "" {
		return nil, errors.New("entities: text is empty")
	}

	var out entitiesResponse
	input := responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser)
	if err := c.structuredCall(ctx, "NamedEntities", entitiesSchema, entitiesInstructions, input, &out); err != nil {
		return nil, err
	}

	entities := make([]search.Entity, 0, len(out.Entities))
	for _, ent := range out.Entities {
		if ent.Text == "" {
			continue
		}
		entities = append(entities, search.Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities, nil
}
