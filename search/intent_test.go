package search

import (
	"context"
	"errors"
	"testing"

	"github.com/photosense/sentimentsearch/search/lexical"
)

type stubScorer struct {
	polarity float64
	err      error
}

func (s stubScorer) Polarity(context.Context, string) (float64, error) {
	return s.polarity, s.err
}

type stubEntities struct {
	entities []Entity
	err      error
}

func (s stubEntities) Entities(context.Context, string) ([]Entity, error) {
	return s.entities, s.err
}

func TestExtract_FullQuery(t *testing.T) {
	t.Parallel()

	e := Extractor{Sentiment: stubScorer{}, Entities: stubEntities{}}
	q := e.Extract(context.Background(), "show me the top 2 happy pictures from June 2023")

	if q.Emotion != "happy" {
		t.Fatalf("Emotion=%q", q.Emotion)
	}
	if q.Month == nil || *q.Month != "june" {
		t.Fatalf("Month=%v", q.Month)
	}
	if q.Year == nil || *q.Year != 2023 {
		t.Fatalf("Year=%v", q.Year)
	}
	if q.TopN == nil || *q.TopN != 2 {
		t.Fatalf("TopN=%v", q.TopN)
	}
	if q.Location != nil {
		t.Fatalf("Location=%v", *q.Location)
	}
}

func TestExtract_EmotionRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		polarity float64
		want     string
	}{
		{name: "composite_term", text: "goofy pictures please", want: "goofy"},
		{name: "base_term", text: "sad pictures", want: "sad"},
		{name: "synonym", text: "mad pictures", want: "angry"},
		{name: "composite_outranks_synonym", text: "mad and goofy pictures", want: "goofy"},
		{name: "leftmost_composite_wins", text: "silly then goofy", want: "silly"},
		{name: "negation_overrides", text: "no fun pictures", polarity: 0.1, want: "neutral"},
		{name: "negation_is_final_despite_polarity", text: "no fun pictures", polarity: -0.9, want: "neutral"},
		{name: "negated_base_term", text: "never show happy ones", polarity: -0.6, want: "neutral"},
		{name: "fallback_positive", text: "what a lovely wonderful day", polarity: 0.8, want: "happy"},
		{name: "fallback_negative", text: "everything went terribly wrong", polarity: -0.7, want: "sad"},
		{name: "fallback_flat", text: "pictures from the shelf", polarity: 0.0, want: "neutral"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := Extractor{Sentiment: stubScorer{polarity: tc.polarity}}
			q := e.Extract(context.Background(), tc.text)
			if q.Emotion != tc.want {
				t.Fatalf("Emotion=%q want=%q", q.Emotion, tc.want)
			}
		})
	}
}

// TestExtract_WithLexicalScorer runs the extractor against the shipped
// offline scorer instead of a stub, covering the wiring the CLI's -offline
// mode actually uses.
func TestExtract_WithLexicalScorer(t *testing.T) {
	t.Parallel()

	e := Extractor{Sentiment: lexical.New()}

	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "negated_composite_stays_neutral", text: "no fun pictures", want: "neutral"},
		{name: "negated_base_stays_neutral", text: "never show happy ones", want: "neutral"},
		{name: "base_term", text: "show me the top 2 happy pictures from June 2023", want: "happy"},
		{name: "fallback_positive", text: "what a wonderful amazing day", want: "happy"},
		{name: "fallback_negative", text: "everything was awful and miserable", want: "sad"},
		{name: "fallback_flat", text: "pictures from the shelf", want: "neutral"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := e.Extract(context.Background(), tc.text)
			if q.Emotion != tc.want {
				t.Fatalf("Emotion=%q want=%q", q.Emotion, tc.want)
			}
		})
	}
}

func TestExtract_ScorerFailureDegradesToNeutral(t *testing.T) {
	t.Parallel()

	e := Extractor{Sentiment: stubScorer{err: errors.New("capability down")}}
	q := e.Extract(context.Background(), "some plain request")
	if q.Emotion != "neutral" {
		t.Fatalf("Emotion=%q", q.Emotion)
	}
}

func TestExtract_MonthCalendarOrderScan(t *testing.T) {
	t.Parallel()

	e := Extractor{}
	q := e.Extract(context.Background(), "december or january shots")
	if q.Month == nil || *q.Month != "january" {
		t.Fatalf("Month=%v", q.Month)
	}
}

func TestExtract_Year(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want *int
	}{
		{name: "in_range", text: "from 2099 maybe", want: intPtr(2099)},
		{name: "below_range", text: "back in 1899", want: nil},
		{name: "not_a_year", text: "roll 12345 please", want: nil},
		{name: "nineteen_hundreds", text: "summer of 1969", want: intPtr(1969)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := Extractor{}.Extract(context.Background(), tc.text)
			if (q.Year == nil) != (tc.want == nil) {
				t.Fatalf("Year=%v want=%v", q.Year, tc.want)
			}
			if tc.want != nil && *q.Year != *tc.want {
				t.Fatalf("Year=%d want=%d", *q.Year, *tc.want)
			}
		})
	}
}

func TestExtract_TopN(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want *int
	}{
		{name: "digits", text: "top 5 images", want: intPtr(5)},
		{name: "number_word_with_top", text: "the top three ones", want: intPtr(3)},
		{name: "number_word_without_top", text: "three pictures", want: nil},
		{name: "unset_means_all", text: "happy pictures", want: nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := Extractor{}.Extract(context.Background(), tc.text)
			if (q.TopN == nil) != (tc.want == nil) {
				t.Fatalf("TopN=%v want=%v", q.TopN, tc.want)
			}
			if tc.want != nil && *q.TopN != *tc.want {
				t.Fatalf("TopN=%d want=%d", *q.TopN, *tc.want)
			}
		})
	}
}

func TestExtract_Location(t *testing.T) {
	t.Parallel()

	ents := stubEntities{entities: []Entity{
		{Text: "yesterday", Label: "DATE"},
		{Text: "Chicago", Label: "GPE"},
		{Text: "Lake Michigan", Label: "LOC"},
	}}
	q := Extractor{Entities: ents}.Extract(context.Background(), "pictures from Chicago")
	if q.Location == nil || *q.Location != "chicago" {
		t.Fatalf("Location=%v", q.Location)
	}

	failed := Extractor{Entities: stubEntities{err: errors.New("recognizer down")}}
	if got := failed.Extract(context.Background(), "pictures from Chicago"); got.Location != nil {
		t.Fatalf("Location=%v, want unset on recognizer failure", *got.Location)
	}
}

func intPtr(n int) *int { return &n }
