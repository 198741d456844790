// Package lexical provides an offline sentiment scorer built on a small
// stemmed valence lexicon. It serves as a fallback when no model-backed
// scorer is configured, and keeps query handling working without network
// access.
package lexical

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/reiver/go-porterstemmer"
)

// valence maps stemmed tokens to a sentiment weight in roughly [-4, 4].
// Stems are produced by the same stemmer used at scoring time, so surface
// variants ("joyful", "joyfully") collapse to one entry.
var valence = map[string]float64{}

var rawValence = map[string]float64{
	"happy": 2.7, "joy": 2.9, "joyful": 2.9, "cheerful": 2.5, "delight": 2.9,
	"fun": 2.3, "funny": 1.9, "great": 3.1, "good": 1.9, "love": 3.2,
	"wonderful": 2.7, "amazing": 2.8, "awesome": 3.1, "excited": 2.5,
	"smile": 2.1, "laugh": 2.6, "celebrate": 2.7, "beautiful": 2.9,
	"best": 3.2, "nice": 1.8, "pleasant": 2.3, "proud": 2.2, "glad": 2.0,
	"sad": -2.1, "unhappy": -1.8, "miserable": -2.7, "depressed": -2.3,
	"cry": -2.1, "crying": -2.1, "terrible": -2.1, "awful": -2.0,
	"bad": -2.5, "horrible": -2.7, "hate": -2.7, "angry": -2.3,
	"furious": -2.6, "upset": -1.6, "gloomy": -1.5, "lonely": -2.2,
	"afraid": -2.0, "scared": -1.9, "worst": -3.1, "fear": -1.9,
	"disgust": -2.9, "grief": -2.4, "hurt": -2.0, "pain": -2.1,
	"worried": -1.4, "anxious": -1.5,
}

// boosters scale the valence of the word that follows them.
var boosters = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "so": 1.2,
	"slightly": 0.6, "somewhat": 0.7,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"isnt": true, "dont": true, "cant": true, "wont": true,
}

// negationScope is how many following tokens a negation flips.
const negationScope = 3

// negationDampen mirrors the conventional VADER flip factor.
const negationDampen = -0.74

// normAlpha normalizes the raw valence sum into (-1, 1).
const normAlpha = 15.0

var tokenRegex = regexp.MustCompile(`\pL+`)

func init() {
	for word, v := range rawValence {
		valence[porterstemmer.StemString(word)] = v
	}
}

// Scorer is a search.SentimentScorer that needs no external service.
type Scorer struct{}

func New() *Scorer { return &Scorer{} }

// Polarity returns a compound sentiment score in [-1, 1]. Zero means the
// text carries no recognized sentiment.
func (s *Scorer) Polarity(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	words := tokenRegex.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0, nil
	}

	var sum float64
	negatedUntil := -1
	boost := 1.0
	for i, word := range words {
		if negations[word] {
			negatedUntil = i + negationScope
			boost = 1.0
			continue
		}
		if b, ok := boosters[word]; ok {
			boost = b
			continue
		}

		v, ok := valence[porterstemmer.StemString(word)]
		if ok {
			v *= boost
			if i <= negatedUntil {
				v *= negationDampen
			}
			sum += v
		}
		boost = 1.0
	}

	if sum == 0 {
		return 0, nil
	}
	return sum / math.Sqrt(sum*sum+normAlpha), nil
}
