package mediatypes

import (
	"path/filepath"
	"strings"
)

// MediaKind represents the kind of a catalogued media item.
type MediaKind string

const (
	// KindImage represents a still image.
	KindImage MediaKind = "image"
	// KindVideo represents a video file.
	KindVideo MediaKind = "video"
	// KindOther represents any other uploaded file.
	KindOther MediaKind = "other"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

// ContentTypes maps file extensions to the content type recorded on the blob.
var ContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
}

// Ext returns the lowercased extension of filename including the leading
// dot, defaulting to ".jpg" when the name has none.
func Ext(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ".jpg"
	}
	return ext
}

// GetKind returns the MediaKind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g. ".jpg").
func GetKind(ext string) MediaKind {
	if ImageExtensions[ext] {
		return KindImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// GetContentType returns the content type for a given file extension.
// Unrecognized extensions fall back to the generic image type, matching
// the upload contract.
func GetContentType(ext string) string {
	if ct, ok := ContentTypes[ext]; ok {
		return ct
	}
	return "image/jpeg"
}
