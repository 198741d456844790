package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filter narrows a folder of photos by capture date and geolocation, both
// derived from per-file metadata lookups.
//
// The inclusion policy is asymmetric on purpose: a photo whose metadata is
// absent or unreadable is included unconditionally, so "indeterminate" photos
// are never filtered out, only explicitly disagreeing ones are.
type Filter struct {
	Meta    MetadataReader
	Geocode ReverseGeocoder
	Log     Logger
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {},
}

// ListImages returns the image files in folder in directory order. A missing
// folder yields an empty list, not an error.
func ListImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ListImages: read dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(folder, entry.Name()))
	}
	return paths, nil
}

// FilterByDate keeps the images in folder whose capture month and year agree
// with the requested ones. Unset criteria are vacuously satisfied; images with
// no readable capture timestamp pass unconditionally.
func (f Filter) FilterByDate(folder string, month *string, year *int) ([]string, []Skip, error) {
	paths, err := ListImages(folder)
	if err != nil {
		return nil, nil, err
	}

	var matched []string
	var skipped []Skip
	for _, path := range paths {
		md, err := f.readMeta(path)
		if err != nil || md.CapturedAt == nil {
			matched = append(matched, path)
			continue
		}
		if dateAgrees(md, month, year) {
			matched = append(matched, path)
		} else {
			skipped = append(skipped, Skip{Path: path, Reason: SkipDateMismatch})
		}
	}
	return matched, skipped, nil
}

func dateAgrees(md PhotoMetadata, month *string, year *int) bool {
	if month != nil {
		got := strings.ToLower(md.CapturedAt.Month().String())
		if got != strings.ToLower(*month) {
			return false
		}
	}
	if year != nil && md.CapturedAt.Year() != *year {
		return false
	}
	return true
}

// FilterByLocation keeps the images in folder whose reverse-geocoded address
// contains the target string (case-folded substring, not exact equality).
// Images with no GPS metadata, or whose reverse geocode fails, pass
// unconditionally.
func (f Filter) FilterByLocation(ctx context.Context, folder string, location *string) ([]string, []Skip, error) {
	paths, err := ListImages(folder)
	if err != nil {
		return nil, nil, err
	}
	if location == nil {
		return paths, nil, nil
	}
	target := strings.ToLower(strings.TrimSpace(*location))
	if target == "" {
		return paths, nil, nil
	}

	var matched []string
	var skipped []Skip
	for _, path := range paths {
		md, err := f.readMeta(path)
		if err != nil || md.Latitude == nil || md.Longitude == nil {
			matched = append(matched, path)
			continue
		}
		address, err := f.geocode(ctx, *md.Latitude, *md.Longitude)
		if err != nil || address == "" {
			f.logWarn(err, "reverse geocode failed for %s", path)
			matched = append(matched, path)
			continue
		}
		if strings.Contains(strings.ToLower(address), target) {
			matched = append(matched, path)
		} else {
			skipped = append(skipped, Skip{Path: path, Reason: SkipPlaceMismatch})
		}
	}
	return matched, skipped, nil
}

// FilterFolder applies the date and location filters to one folder and
// intersects the surviving sets: a candidate must appear in both, it is never
// returned for matching only one criterion.
func (f Filter) FilterFolder(ctx context.Context, folder string, q Query) ([]string, []Skip, error) {
	byDate, dateSkips, err := f.FilterByDate(folder, q.Month, q.Year)
	if err != nil {
		return nil, nil, err
	}
	byPlace, placeSkips, err := f.FilterByLocation(ctx, folder, q.Location)
	if err != nil {
		return nil, nil, err
	}

	inPlace := make(map[string]struct{}, len(byPlace))
	for _, p := range byPlace {
		inPlace[p] = struct{}{}
	}
	var both []string
	for _, p := range byDate {
		if _, ok := inPlace[p]; ok {
			both = append(both, p)
		}
	}
	return both, append(dateSkips, placeSkips...), nil
}

func (f Filter) readMeta(path string) (PhotoMetadata, error) {
	if f.Meta == nil {
		return PhotoMetadata{}, nil
	}
	md, err := f.Meta.ReadMetadata(path)
	if err != nil {
		f.logWarn(err, "could not read metadata for %s", path)
		return PhotoMetadata{}, err
	}
	return md, nil
}

func (f Filter) geocode(ctx context.Context, lat, lon float64) (string, error) {
	if f.Geocode == nil {
		return "", nil
	}
	return f.Geocode.ReverseGeocode(ctx, lat, lon)
}

func (f Filter) logWarn(err error, format string, v ...any) {
	if f.Log == nil {
		return
	}
	if err != nil {
		v = append(v, err)
		format += ": %v"
	}
	f.Log.Warning(format, v...)
}
