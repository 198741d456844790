package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/photosense/sentimentsearch/search/fileutil"
)

// AnalysisCache persists per-photo emotion profiles keyed by canonical
// absolute path, so a photo is classified at most once across process runs.
//
// There is no eviction, no TTL and no classifier versioning: a hit always
// short-circuits re-classification even if the photo changed on disk since.
// That staleness is an accepted performance trade, not a bug to fix here.
//
// The load-mutate-flush cycle is not safe for concurrent ranking passes; two
// overlapping passes lose writes (last flush wins on the full-file rewrite).
type AnalysisCache struct {
	path    string
	entries map[string]EmotionProfile
	dirty   bool
}

// LoadCache reads the cache file at path. A missing or corrupt file is
// treated as an empty cache, never an error.
func LoadCache(path string) (*AnalysisCache, error) {
	if path == "" {
		return nil, errors.New("LoadCache: path is empty")
	}
	c := &AnalysisCache{path: path, entries: map[string]EmotionProfile{}}

	b, err := os.ReadFile(path)
	if err != nil {
		// Missing or unreadable file: start empty, the next Flush recreates it.
		return c, nil
	}
	if err := json.Unmarshal(b, &c.entries); err != nil {
		// Corrupt cache: start over rather than fail the ranking pass.
		c.entries = map[string]EmotionProfile{}
	}
	return c, nil
}

// Key canonicalizes a photo path to the cache key form.
func (c *AnalysisCache) Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Get returns the cached profile for path, if any.
func (c *AnalysisCache) Get(path string) (EmotionProfile, bool) {
	p, ok := c.entries[c.Key(path)]
	return p, ok
}

// Put stores a freshly computed profile for path.
func (c *AnalysisCache) Put(path string, profile EmotionProfile) {
	c.entries[c.Key(path)] = profile
	c.dirty = true
}

// Len reports the number of cached profiles.
func (c *AnalysisCache) Len() int { return len(c.entries) }

// Flush rewrites the whole cache file atomically. A crash before Flush leaves
// the previous flush intact. Flushing an unchanged cache is a no-op.
func (c *AnalysisCache) Flush() error {
	if !c.dirty {
		return nil
	}
	if err := fileutil.WriteJSONFileAtomic(c.path, c.entries, true); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	c.dirty = false
	return nil
}
