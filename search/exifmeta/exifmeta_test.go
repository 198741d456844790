package exifmeta

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	geo "github.com/codingsince1985/geo-golang"
)

func TestReadMetadata_NoEXIF(t *testing.T) {
	t.Parallel()

	// A plain PNG carries no EXIF block; every field should come back nil.
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(t.TempDir(), "plain.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	meta, err := NewReader().ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.CapturedAt != nil || meta.Latitude != nil || meta.Longitude != nil {
		t.Fatalf("meta=%+v, want all nil", meta)
	}
}

func TestReadMetadata_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := NewReader().ReadMetadata(filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr geo.Address
		want string
	}{
		{
			name: "formatted_wins",
			addr: geo.Address{FormattedAddress: "1 Main St, Springfield", City: "Shelbyville"},
			want: "1 Main St, Springfield",
		},
		{
			name: "assembled_fallback",
			addr: geo.Address{Suburb: "Mission", City: "San Francisco", Country: "USA"},
			want: "Mission, San Francisco, USA",
		},
		{
			name: "empty",
			addr: geo.Address{},
			want: "",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := formatAddress(&tc.addr); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}
