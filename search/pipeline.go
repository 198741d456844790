package search

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// UploadedImage is one user-submitted photo accompanying a query.
type UploadedImage struct {
	Name string
	Data []byte
}

// Response is what one processed query returns to the caller. It is always
// produced, possibly with an empty result list; per-item failures surface as
// skips, never as an error.
type Response struct {
	Query   Query          `json:"query"`
	Results []RankedResult `json:"results"`
	Skipped []Skip         `json:"skipped,omitempty"`
}

// referenceTriggers are the phrases that switch a query into "search using my
// own current expression" mode, replacing the textual emotion term with the
// dominant emotion of the captured reference photo.
var referenceTriggers = []string{"like me", "how i feel", "my mood"}

// Pipeline composes intent extraction, metadata filtering and emotion ranking
// into one request-to-results pass over the upload scratch folder and the
// persistent library folder.
//
// Queries are processed one at a time, start to finish. The cache lifecycle is
// load at pipeline start, flush once at pipeline end; two overlapping calls
// would race on the cache file and on the scratch folder.
type Pipeline struct {
	Extractor Extractor
	Filter    Filter
	Ranker    Ranker

	// LibraryDir is the persistent photo library. UploadDir is the scratch
	// folder for the current query's uploads; it is fully cleared at the
	// start of every query.
	LibraryDir string
	UploadDir  string

	// CachePath is the file backing the analysis cache. ReferencePath is the
	// previously captured reference photo, if any.
	CachePath     string
	ReferencePath string

	Log Logger
}

// ProcessQuery runs the full pipeline for one text query plus optional
// uploaded images.
func (p Pipeline) ProcessQuery(ctx context.Context, text string, uploads []UploadedImage) Response {
	log := p.logger()

	if p.UploadDir != "" {
		if err := clearDir(p.UploadDir); err != nil {
			log.Warning("could not clear upload folder: %v", err)
		}
		p.saveUploads(uploads)
	}

	q := p.Extractor.Extract(ctx, text)
	log.Info("query parsed: emotion=%s month=%s year=%s top=%s location=%s",
		q.Emotion, strOrUnset(q.Month), intOrUnset(q.Year), intOrUnset(q.TopN), strOrUnset(q.Location))

	cache, err := LoadCache(p.CachePath)
	if err != nil {
		log.Error("cache unavailable: %v", err)
		return Response{Query: q, Results: []RankedResult{}}
	}

	emotion := p.applyReferenceOverride(ctx, cache, text, q.Emotion)
	q.Emotion = emotion

	var candidates []string
	var skipped []Skip
	seen := map[string]struct{}{}
	for _, folder := range p.sourceFolders() {
		matched, skips, err := p.Filter.FilterFolder(ctx, folder, q)
		if err != nil {
			log.Warning("could not filter %s: %v", folder, err)
			continue
		}
		for _, path := range matched {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			candidates = append(candidates, path)
		}
		skipped = append(skipped, skips...)
	}
	log.Info("%d candidate photos after date/location filtering", len(candidates))

	results, rankSkips := p.Ranker.Rank(ctx, cache, candidates, emotion, q.TopN)
	if results == nil {
		results = []RankedResult{}
	}
	return Response{Query: q, Results: results, Skipped: append(skipped, rankSkips...)}
}

// applyReferenceOverride swaps the detected emotion for the reference photo's
// dominant emotion when the text asks for it and a reference photo exists.
func (p Pipeline) applyReferenceOverride(ctx context.Context, cache *AnalysisCache, text, detected string) string {
	if p.ReferencePath == "" {
		return detected
	}
	folded := strings.ToLower(text)
	triggered := false
	for _, phrase := range referenceTriggers {
		if strings.Contains(folded, phrase) {
			triggered = true
			break
		}
	}
	if !triggered {
		return detected
	}
	if _, err := os.Stat(p.ReferencePath); err != nil {
		p.logger().Warning("reference photo missing, keeping %q: %v", detected, err)
		return detected
	}

	profile, ok := cache.Get(p.ReferencePath)
	if !ok {
		var err error
		profile, err = p.Ranker.classify(ctx, p.ReferencePath)
		if err != nil {
			p.logger().Warning("could not analyze reference photo, keeping %q: %v", detected, err)
			return detected
		}
		cache.Put(p.ReferencePath, profile)
	}
	dominant := strings.ToLower(profile.Dominant)
	if dominant == "" {
		return detected
	}
	p.logger().Info("reference override: %q replaces %q", dominant, detected)
	return dominant
}

func (p Pipeline) sourceFolders() []string {
	var folders []string
	if p.UploadDir != "" {
		folders = append(folders, p.UploadDir)
	}
	if p.LibraryDir != "" {
		folders = append(folders, p.LibraryDir)
	}
	return folders
}

// saveUploads writes the batch into the scratch folder. A bad item is skipped;
// the rest of the batch still proceeds.
func (p Pipeline) saveUploads(uploads []UploadedImage) {
	for _, up := range uploads {
		if err := p.saveUpload(up); err != nil {
			p.logger().Warning("skipping upload %s: %v", up.Name, err)
		}
	}
}

func (p Pipeline) saveUpload(up UploadedImage) error {
	if len(up.Data) == 0 {
		return fmt.Errorf("empty upload")
	}
	name := filepath.Base(up.Name)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := imageExtensions[ext]; !ok {
		return fmt.Errorf("unsupported image type %q", ext)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(up.Data)); err != nil {
		return fmt.Errorf("decode upload: %w", err)
	}
	if err := os.MkdirAll(p.UploadDir, 0o755); err != nil {
		return fmt.Errorf("mkdir upload folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.UploadDir, name), up.Data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// clearDir removes every entry in dir. Destructive and non-atomic: a crash
// mid-clear can leave partial state for the next query to clear again.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (p Pipeline) logger() Logger {
	if p.Log != nil {
		return p.Log
	}
	return nopLogger{}
}

func strOrUnset(s *string) string {
	if s == nil {
		return "unset"
	}
	return *s
}

func intOrUnset(n *int) string {
	if n == nil {
		return "unset"
	}
	return fmt.Sprintf("%d", *n)
}
