package search

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var errNoClassifier = errors.New("no emotion classifier configured")

// Ranker scores candidate photos against a requested emotion term using the
// analysis cache and the external emotion classifier.
type Ranker struct {
	Classifier EmotionClassifier
	Log        Logger
}

// Rank resolves the emotion term to its base-emotion blend, scores every
// candidate photo (classify-on-miss through cache), drops zero-score photos as
// irrelevant, stable-sorts the rest by score descending and truncates to topN.
// A nil topN returns the full sorted set.
//
// The pass is atomic from the caller's perspective: the cache is flushed once
// at the end. Per-photo classification failures drop only that photo (recorded
// as a skip, not cached, not retried).
func (r Ranker) Rank(ctx context.Context, cache *AnalysisCache, paths []string, emotionTerm string, topN *int) ([]RankedResult, []Skip) {
	blend := ResolveBlend(emotionTerm)

	var results []RankedResult
	var skipped []Skip
	for _, path := range paths {
		profile, ok := cache.Get(path)
		if !ok {
			var err error
			profile, err = r.classify(ctx, path)
			if err != nil {
				r.logError("could not analyze %s: %v", path, err)
				skipped = append(skipped, Skip{Path: path, Reason: SkipClassifyFailed, Err: err.Error()})
				continue
			}
			cache.Put(path, profile)
		}

		score := blendScore(profile, blend)
		if score == 0 {
			// Relevance gate: a photo with nothing of the requested blend is
			// excluded entirely, not ranked last.
			skipped = append(skipped, Skip{Path: path, Reason: SkipZeroScore})
			continue
		}
		results = append(results, RankedResult{
			Path:     path,
			Dominant: strings.ToLower(profile.Dominant),
			Score:    score,
		})
	}

	// Stable: equal scores keep encounter order, there is no secondary key.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topN != nil && len(results) > *topN {
		results = results[:*topN]
	}

	if err := cache.Flush(); err != nil {
		r.logError("cache flush failed: %v", err)
	}
	return results, skipped
}

// blendScore sums the profile's confidences restricted to the blend set.
func blendScore(profile EmotionProfile, blend []string) float64 {
	var sum float64
	for _, emotion := range blend {
		sum += profile.Scores[emotion]
	}
	return sum
}

func (r Ranker) classify(ctx context.Context, path string) (EmotionProfile, error) {
	if r.Classifier == nil {
		return EmotionProfile{}, errNoClassifier
	}
	return r.Classifier.Classify(ctx, path)
}

func (r Ranker) logError(format string, v ...any) {
	if r.Log == nil {
		return
	}
	r.Log.Error(format, v...)
}
