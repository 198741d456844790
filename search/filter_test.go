package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// stubReader serves canned metadata keyed by file base name.
type stubReader struct {
	meta map[string]PhotoMetadata
	errs map[string]error
}

func (s stubReader) ReadMetadata(path string) (PhotoMetadata, error) {
	name := filepath.Base(path)
	if err, ok := s.errs[name]; ok {
		return PhotoMetadata{}, err
	}
	if md, ok := s.meta[name]; ok {
		return md, nil
	}
	return PhotoMetadata{}, nil
}

type stubGeocoder struct {
	address string
	err     error
}

func (s stubGeocoder) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return s.address, s.err
}

func writeImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func capturedAt(year int, month time.Month) PhotoMetadata {
	ts := time.Date(year, month, 14, 12, 0, 0, 0, time.UTC)
	return PhotoMetadata{CapturedAt: &ts}
}

func withGPS(lat, lon float64) PhotoMetadata {
	return PhotoMetadata{Latitude: &lat, Longitude: &lon}
}

func strPtr(s string) *string { return &s }

func TestListImages_SkipsNonImagesAndMissingFolder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "a.jpg", "b.PNG", "c.jpeg", "notes.txt")

	paths, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths=%v", paths)
	}

	missing, err := ListImages(filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatalf("missing folder should not error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing=%v", missing)
	}
}

func TestFilterByDate_InclusionByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "june.jpg", "july.jpg", "bare.jpg", "broken.jpg")

	f := Filter{Meta: stubReader{
		meta: map[string]PhotoMetadata{
			"june.jpg": capturedAt(2023, time.June),
			"july.jpg": capturedAt(2023, time.July),
		},
		errs: map[string]error{
			"broken.jpg": errors.New("unreadable exif"),
		},
	}}

	matched, skipped, err := f.FilterByDate(dir, strPtr("june"), intPtr(2023))
	if err != nil {
		t.Fatalf("FilterByDate: %v", err)
	}

	want := map[string]bool{"june.jpg": true, "bare.jpg": true, "broken.jpg": true}
	if len(matched) != len(want) {
		t.Fatalf("matched=%v", matched)
	}
	for _, p := range matched {
		if !want[filepath.Base(p)] {
			t.Fatalf("unexpected match %s", p)
		}
	}
	if len(skipped) != 1 || filepath.Base(skipped[0].Path) != "july.jpg" || skipped[0].Reason != SkipDateMismatch {
		t.Fatalf("skipped=%v", skipped)
	}
}

func TestFilterByDate_UnsetCriteriaAreVacuous(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "june.jpg", "july.jpg")

	f := Filter{Meta: stubReader{meta: map[string]PhotoMetadata{
		"june.jpg": capturedAt(2023, time.June),
		"july.jpg": capturedAt(2024, time.July),
	}}}

	// Month only: year must not be considered.
	matched, _, err := f.FilterByDate(dir, strPtr("July"), nil)
	if err != nil {
		t.Fatalf("FilterByDate: %v", err)
	}
	if len(matched) != 1 || filepath.Base(matched[0]) != "july.jpg" {
		t.Fatalf("matched=%v", matched)
	}

	// No criteria: everything passes.
	all, _, err := f.FilterByDate(dir, nil, nil)
	if err != nil {
		t.Fatalf("FilterByDate: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all=%v", all)
	}
}

func TestFilterByLocation_SubstringAndInclusionByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "tagged.jpg", "bare.jpg")

	f := Filter{
		Meta: stubReader{meta: map[string]PhotoMetadata{
			"tagged.jpg": withGPS(41.88, -87.63),
		}},
		Geocode: stubGeocoder{address: "233 S Wacker Dr, Chicago, Illinois, United States"},
	}

	matched, skipped, err := f.FilterByLocation(context.Background(), dir, strPtr("chicago"))
	if err != nil {
		t.Fatalf("FilterByLocation: %v", err)
	}
	if len(matched) != 2 || len(skipped) != 0 {
		t.Fatalf("matched=%v skipped=%v", matched, skipped)
	}

	matched, skipped, err = f.FilterByLocation(context.Background(), dir, strPtr("paris"))
	if err != nil {
		t.Fatalf("FilterByLocation: %v", err)
	}
	// bare.jpg has no GPS and passes; tagged.jpg disagrees and is excluded.
	if len(matched) != 1 || filepath.Base(matched[0]) != "bare.jpg" {
		t.Fatalf("matched=%v", matched)
	}
	if len(skipped) != 1 || skipped[0].Reason != SkipPlaceMismatch {
		t.Fatalf("skipped=%v", skipped)
	}
}

func TestFilterByLocation_GeocodeFailureIncludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "tagged.jpg")

	f := Filter{
		Meta: stubReader{meta: map[string]PhotoMetadata{
			"tagged.jpg": withGPS(41.88, -87.63),
		}},
		Geocode: stubGeocoder{err: errors.New("geocoder down")},
	}
	matched, skipped, err := f.FilterByLocation(context.Background(), dir, strPtr("paris"))
	if err != nil {
		t.Fatalf("FilterByLocation: %v", err)
	}
	if len(matched) != 1 || len(skipped) != 0 {
		t.Fatalf("matched=%v skipped=%v", matched, skipped)
	}
}

func TestFilterFolder_IntersectsDateAndLocation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImages(t, dir, "both.jpg", "dateonly.jpg", "placeonly.jpg")

	f := Filter{
		Meta: stubReader{meta: map[string]PhotoMetadata{
			"both.jpg": {
				CapturedAt: capturedAt(2023, time.June).CapturedAt,
				Latitude:   withGPS(41.88, -87.63).Latitude,
				Longitude:  withGPS(41.88, -87.63).Longitude,
			},
			"dateonly.jpg":  capturedAt(2023, time.June),
			"placeonly.jpg": capturedAt(2021, time.March),
		}},
		Geocode: stubGeocoder{address: "Chicago, United States"},
	}

	// dateonly.jpg has no GPS, so it passes location by default; placeonly.jpg
	// fails the date check and must not survive intersection.
	q := Query{Emotion: "happy", Month: strPtr("june"), Year: intPtr(2023), Location: strPtr("chicago")}
	matched, _, err := f.FilterFolder(context.Background(), dir, q)
	if err != nil {
		t.Fatalf("FilterFolder: %v", err)
	}
	got := map[string]bool{}
	for _, p := range matched {
		got[filepath.Base(p)] = true
	}
	if len(got) != 2 || !got["both.jpg"] || !got["dateonly.jpg"] {
		t.Fatalf("matched=%v", matched)
	}
}
