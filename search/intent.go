package search

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Extractor turns free (voice-transcribed) text into a structured Query.
// Emotion detection is an ordered rule list: vocabulary rules, a terminal
// negation override, then a sentiment-polarity fallback for texts no rule
// resolved. The zero value works but never resolves the fallback or a
// location; wire Sentiment and Entities for the full behavior.
type Extractor struct {
	Sentiment SentimentScorer
	Entities  EntityRecognizer
	Log       Logger
}

// Polarity thresholds for the sentiment fallback.
const (
	happyPolarity = 0.3
	sadPolarity   = -0.3
)

var (
	wordRegex = regexp.MustCompile(`[a-z]+|\d+`)
	yearRegex = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
	topNRegex = regexp.MustCompile(`top\s+(\d+)`)

	locationEntityLabels = map[string]struct{}{
		"GPE": {}, "LOC": {}, "FAC": {},
	}
)

// Extract parses text into a Query. Extraction ambiguity is not an error:
// absent month/year/location/top-n are valid nil outcomes. Capability failures
// (sentiment, entities) degrade the affected field and are logged, never fatal.
func (e Extractor) Extract(ctx context.Context, text string) Query {
	folded := strings.ToLower(text)
	tokens := wordRegex.FindAllString(folded, -1)

	q := Query{
		Emotion:  e.detectEmotion(ctx, folded, tokens),
		Month:    detectMonth(folded),
		Year:     detectYear(folded),
		TopN:     detectTopN(folded, tokens),
		Location: e.detectLocation(ctx, text),
	}
	return q
}

// detectEmotion evaluates the emotion rules in documented priority order.
// Each rule either resolves a term or has no opinion; the first resolution
// wins, ties within a rule broken by left-to-right token order.
func (e Extractor) detectEmotion(ctx context.Context, folded string, tokens []string) string {
	detected := ""

	// Rule 1: composite-term vocabulary.
	for _, tok := range tokens {
		if _, ok := blendMap[tok]; ok {
			detected = tok
			break
		}
	}
	// Rule 2: base-emotion vocabulary.
	if detected == "" {
		for _, tok := range tokens {
			if _, ok := baseEmotionSet[tok]; ok {
				detected = tok
				break
			}
		}
	}
	// Rule 3: synonym table, casual word to canonical term.
	if detected == "" {
		for _, tok := range tokens {
			if canonical, ok := synonymMap[tok]; ok {
				detected = canonical
				break
			}
		}
	}

	// Negation override: any negation marker anywhere forces "neutral" and
	// ends the rule list, regardless of what rules 1-3 found. The polarity
	// fallback never reinterprets a negated request, so "no fun pictures"
	// stays neutral under every scorer.
	for _, tok := range tokens {
		if _, ok := negationWords[tok]; ok {
			return "neutral"
		}
	}

	// Fallback rule, last: sentiment polarity of the whole text, consulted
	// only when no vocabulary term resolved.
	if detected == "" {
		detected = e.sentimentFallback(ctx, folded)
	}
	return detected
}

func (e Extractor) sentimentFallback(ctx context.Context, folded string) string {
	if e.Sentiment == nil {
		return "neutral"
	}
	polarity, err := e.Sentiment.Polarity(ctx, folded)
	if err != nil {
		e.log().Warning("sentiment fallback failed: %v", err)
		return "neutral"
	}
	switch {
	case polarity >= happyPolarity:
		return "happy"
	case polarity <= sadPolarity:
		return "sad"
	default:
		return "neutral"
	}
}

// detectMonth returns the first month name present in the text, scanning in
// calendar order with case-folded substring containment.
func detectMonth(folded string) *string {
	for _, m := range monthNames {
		if strings.Contains(folded, m) {
			month := m
			return &month
		}
	}
	return nil
}

func detectYear(folded string) *int {
	m := yearRegex.FindStringSubmatch(folded)
	if m == nil {
		return nil
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &year
}

// detectTopN looks for "top <number>", then for a spelled-out number word
// provided the literal word "top" also appears. Absent both, the count stays
// unset: an unset count means "return everything that matches".
func detectTopN(folded string, tokens []string) *int {
	if m := topNRegex.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return &n
		}
	}
	if !strings.Contains(folded, "top") {
		return nil
	}
	for _, tok := range tokens {
		if n, ok := numberWords[tok]; ok {
			return &n
		}
	}
	return nil
}

// detectLocation delegates to the entity recognizer and takes the first
// entity tagged with a geopolitical, location, or facility label.
func (e Extractor) detectLocation(ctx context.Context, text string) *string {
	if e.Entities == nil {
		return nil
	}
	entities, err := e.Entities.Entities(ctx, text)
	if err != nil {
		e.log().Warning("entity recognition failed: %v", err)
		return nil
	}
	for _, ent := range entities {
		if _, ok := locationEntityLabels[strings.ToUpper(ent.Label)]; ok {
			loc := strings.ToLower(strings.TrimSpace(ent.Text))
			if loc != "" {
				return &loc
			}
		}
	}
	return nil
}

func (e Extractor) log() Logger {
	if e.Log != nil {
		return e.Log
	}
	return nopLogger{}
}
