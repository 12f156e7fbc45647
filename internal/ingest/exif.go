package ingest

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// extractTakenAt reads the embedded capture time from the image bytes.
// Absent or corrupt metadata yields nil, never an error; a missing
// capture time must not fail the item.
func extractTakenAt(data []byte) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	// DateTime prefers DateTimeOriginal and falls back to DateTime.
	t, err := x.DateTime()
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
