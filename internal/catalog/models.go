package catalog

import "time"

// Album is a named collection of media items.
// ImageCount and CoverKey are derived at query time, never stored.
type Album struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	ImageCount int       `json:"imageCount"`
	CoverKey   *string   `json:"coverKey"`
}

// MediaItem is one catalogued media file. ObjectKey references exactly
// one stored blob once ingestion has completed.
type MediaItem struct {
	ID        int64      `json:"id"`
	AlbumID   int64      `json:"albumId"`
	ObjectKey string     `json:"objectKey"`
	Filename  string     `json:"filename"`
	TakenAt   *time.Time `json:"takenAt"`
	Size      int64      `json:"size"`
	MediaKind string     `json:"mediaKind"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Page is one fetched slice of an album's item sequence.
type Page struct {
	Items      []MediaItem `json:"data"`
	NextOffset *int        `json:"nextOffset"`
	HasMore    bool        `json:"hasMore"`
}

// NewItem carries the fields of a media item to be inserted.
type NewItem struct {
	AlbumID   int64
	ObjectKey string
	Filename  string
	TakenAt   *time.Time
	Size      int64
	MediaKind string
}
