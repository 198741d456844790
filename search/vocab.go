package search

import "strings"

// BaseEmotions is the fixed label set the emotion classifier produces.
var BaseEmotions = []string{"happy", "sad", "angry", "surprise", "fear", "disgust", "neutral"}

var baseEmotionSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(BaseEmotions))
	for _, e := range BaseEmotions {
		m[e] = struct{}{}
	}
	return m
}()

// IsBaseEmotion reports whether term is one of the seven base labels.
func IsBaseEmotion(term string) bool {
	_, ok := baseEmotionSet[strings.ToLower(term)]
	return ok
}

// blendMap maps each composite/mood term to the base emotions whose classifier
// confidences add up to that term's blend score. Static, loaded once, never
// mutated at request time.
var blendMap = map[string][]string{
	"goofy":        {"happy", "surprise", "neutral"},
	"goofiest":     {"happy", "surprise", "neutral"},
	"silly":        {"happy", "surprise"},
	"melancholy":   {"sad", "neutral"},
	"nostalgia":    {"surprise", "neutral", "happy", "sad"},
	"bittersweet":  {"happy", "sad", "neutral"},
	"anxious":      {"fear", "surprise", "neutral"},
	"content":      {"happy", "neutral"},
	"hopeful":      {"happy", "surprise"},
	"serene":       {"neutral", "happy"},
	"guilty":       {"sad", "fear", "disgust"},
	"ashamed":      {"sad", "disgust", "neutral"},
	"proud":        {"happy", "neutral", "surprise"},
	"affectionate": {"happy", "neutral"},
	"lonely":       {"sad", "neutral"},
	"conflicted":   {"neutral", "sad", "happy"},
	"frustrated":   {"angry", "sad", "neutral"},
	"resentful":    {"angry", "disgust"},
	"startled":     {"surprise", "fear"},
	"relieved":     {"happy", "neutral", "sad"},
	"overwhelmed":  {"fear", "surprise", "sad"},
	"awkward":      {"neutral", "fear", "surprise"},
	"disappointed": {"sad", "neutral"},
	"inspired":     {"happy", "surprise", "neutral"},
	"peaceful":     {"happy", "neutral", "sad"},
	"curious":      {"surprise", "neutral", "happy"},
	"bored":        {"neutral", "sad"},
	"playful":      {"happy", "surprise"},
	"grateful":     {"happy", "neutral"},
	"embarrassed":  {"sad", "surprise", "disgust"},
	"determined":   {"angry", "neutral", "happy"},
}

// synonymMap maps casual words to the canonical composite or base term.
var synonymMap = map[string]string{
	"fun":        "goofy",
	"funny":      "goofy",
	"joyful":     "happy",
	"scared":     "fear",
	"gross":      "disgust",
	"mad":        "angry",
	"serious":    "neutral",
	"loneliness": "lonely",
	"hope":       "hopeful",
	"peace":      "peaceful",
}

// ResolveBlend maps an emotion term to its weighted base-emotion set. Unknown
// terms resolve to the singleton set containing the term itself, so a literal
// base emotion is its own one-element blend.
func ResolveBlend(term string) []string {
	term = strings.ToLower(term)
	if blend, ok := blendMap[term]; ok {
		out := make([]string, len(blend))
		copy(out, blend)
		return out
	}
	return []string{term}
}

// monthNames in calendar order. The extractor scans these in order, matching
// the original substring behavior, so "january" beats a later month even when
// the later month appears first in the text.
var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var negationWords = map[string]struct{}{
	"not": {}, "no": {}, "never": {},
}
