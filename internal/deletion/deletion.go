package deletion

import (
	"context"
	"fmt"

	"photo-archive/internal/archerr"
	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
	"photo-archive/internal/logging"
)

// Cataloger is the slice of the catalog the coordinator needs.
type Cataloger interface {
	GetAlbum(ctx context.Context, id int64) (*catalog.Album, error)
	GetImage(ctx context.Context, id int64) (*catalog.MediaItem, error)
	DeleteImage(ctx context.Context, id int64) error
	CountImages(ctx context.Context, albumID int64) (int, error)
	DeleteAlbum(ctx context.Context, id int64) error
}

// ThumbKeyFunc maps an object key to its thumbnail key.
type ThumbKeyFunc func(objectKey string) string

// Coordinator performs ordered, idempotent removal across the blob
// store and the catalog.
type Coordinator struct {
	catalog  Cataloger
	store    blobstore.Store
	thumbKey ThumbKeyFunc
}

// New builds a coordinator. thumbKey may be nil when no thumbnails are
// generated.
func New(cat Cataloger, store blobstore.Store, thumbKey ThumbKeyFunc) *Coordinator {
	return &Coordinator{catalog: cat, store: store, thumbKey: thumbKey}
}

// DeleteImage removes one media item: thumbnail, blob, then catalog
// row. Blob deletes tolerate absence, so re-running a half-finished
// delete converges on the same end state.
func (c *Coordinator) DeleteImage(ctx context.Context, albumID, imageID int64) error {
	item, err := c.catalog.GetImage(ctx, imageID)
	if err != nil {
		return err
	}
	if item.AlbumID != albumID {
		return archerr.NotFound("image not found in album")
	}

	// The thumbnail is derived data; failing to remove it must not
	// block the delete.
	if c.thumbKey != nil {
		if err := c.store.Delete(ctx, c.thumbKey(item.ObjectKey)); err != nil {
			logging.Warn("thumbnail for image %d not removed: %v", imageID, err)
		}
	}

	// Blob before row. If the row delete below fails we are left with
	// a dangling reference, never a leaked blob.
	if err := c.store.Delete(ctx, item.ObjectKey); err != nil {
		return archerr.Unavailable("blob delete failed", err)
	}

	if err := c.catalog.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("catalog row for deleted blob %s: %w", item.ObjectKey, err)
	}
	return nil
}

// DeleteAlbum removes an empty album. A non-empty album is refused
// with a conflict and nothing is mutated.
func (c *Coordinator) DeleteAlbum(ctx context.Context, albumID int64) error {
	if _, err := c.catalog.GetAlbum(ctx, albumID); err != nil {
		return err
	}

	count, err := c.catalog.CountImages(ctx, albumID)
	if err != nil {
		return err
	}
	if count > 0 {
		return archerr.Conflict(fmt.Sprintf("album still contains %d images", count))
	}

	return c.catalog.DeleteAlbum(ctx, albumID)
}
