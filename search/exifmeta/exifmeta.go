// Package exifmeta reads capture metadata out of image files and resolves
// GPS coordinates to place names.
package exifmeta

import (
	"context"
	"fmt"
	"os"
	"strings"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/photosense/sentimentsearch/search"
)

// Reader implements search.MetadataReader on top of embedded EXIF tags.
// Images without EXIF data, or with partial tags, yield a metadata struct
// with the missing fields left nil rather than an error.
type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (r *Reader) ReadMetadata(path string) (search.PhotoMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return search.PhotoMetadata{}, fmt.Errorf("read metadata: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF block at all. The caller treats absent metadata as
		// "matches every filter", so this is not a failure.
		return search.PhotoMetadata{}, nil
	}

	var meta search.PhotoMetadata
	if captured, err := x.DateTime(); err == nil {
		meta.CapturedAt = &captured
	}
	if lat, lon, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &lon
	}
	return meta, nil
}

// Geocoder implements search.ReverseGeocoder against the OpenStreetMap
// Nominatim service.
type Geocoder struct {
	geocoder geo.Geocoder
}

func NewGeocoder() *Geocoder {
	return &Geocoder{geocoder: openstreetmap.Geocoder()}
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	addr, err := g.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return "", fmt.Errorf("reverse geocode (%.4f, %.4f): %w", lat, lon, err)
	}
	if addr == nil {
		return "", fmt.Errorf("reverse geocode (%.4f, %.4f): no result", lat, lon)
	}
	return formatAddress(addr), nil
}

// formatAddress prefers the service-provided display string and falls back
// to assembling one from the structured fields.
func formatAddress(addr *geo.Address) string {
	if addr.FormattedAddress != "" {
		return addr.FormattedAddress
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{addr.Suburb, addr.City, addr.State, addr.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
