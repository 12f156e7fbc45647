package preview

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumbKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"albums/7/abc.png", "albums/7/thumbs/abc.jpg"},
		{"albums/7/abc.jpg", "albums/7/thumbs/abc.jpg"},
		{"albums/12/deadbeef.heic", "albums/12/thumbs/deadbeef.jpg"},
		{"albums/1/noext", "albums/1/thumbs/noext.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ThumbKey(tt.key); got != tt.want {
				t.Errorf("ThumbKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGenerateFitsBoundingBox(t *testing.T) {
	thumb, err := Generate(testPNG(t, 1200, 800))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width > maxDimension || cfg.Height > maxDimension {
		t.Errorf("thumbnail %dx%d exceeds %dpx box", cfg.Width, cfg.Height, maxDimension)
	}
	// Aspect ratio 3:2 should survive the fit.
	if cfg.Width != 320 || cfg.Height != 213 {
		t.Errorf("thumbnail = %dx%d, want 320x213", cfg.Width, cfg.Height)
	}
}

func TestGenerateSmallImageUnscaled(t *testing.T) {
	thumb, err := Generate(testPNG(t, 100, 60))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 60 {
		t.Errorf("small image resized to %dx%d, want 100x60", cfg.Width, cfg.Height)
	}
}

func TestGenerateRejectsGarbage(t *testing.T) {
	if _, err := Generate([]byte("definitely not an image")); err == nil {
		t.Fatal("Generate should fail on undecodable bytes")
	}
}
