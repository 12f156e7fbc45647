package preview

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // webp decode support
)

// maxDimension is the bounding box of generated thumbnails.
const maxDimension = 320

// jpegQuality balances size against visible artifacts in a grid cell.
const jpegQuality = 80

// ThumbKey returns the object key a thumbnail is stored under for the
// given original key: albums/7/abc.png -> albums/7/thumbs/abc.jpg.
func ThumbKey(objectKey string) string {
	dir := path.Dir(objectKey)
	base := path.Base(objectKey)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return path.Join(dir, "thumbs", base+".jpg")
}

// Generate decodes data and returns JPEG thumbnail bytes fitting within
// a 320px bounding box, preserving aspect ratio and EXIF orientation.
func Generate(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
