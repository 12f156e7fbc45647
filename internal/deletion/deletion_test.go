package deletion

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"photo-archive/internal/archerr"
	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
	"photo-archive/internal/preview"
)

type fixture struct {
	cat     *catalog.Catalog
	store   *blobstore.Memory
	coord   *Coordinator
	albumID int64
	items   []catalog.MediaItem
}

func newFixture(t *testing.T, itemCount int) *fixture {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.New(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	album, err := cat.CreateAlbum(ctx, "deletion test")
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	store := blobstore.NewMemory()
	newItems := make([]catalog.NewItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		key := filepath.Join("albums", "1", "item-"+strings.Repeat("x", i+1)+".jpg")
		if err := store.Put(ctx, key, []byte("bytes"), "image/jpeg", nil); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Put(ctx, preview.ThumbKey(key), []byte("thumb"), "image/jpeg", nil); err != nil {
			t.Fatalf("Put thumb: %v", err)
		}
		newItems = append(newItems, catalog.NewItem{
			AlbumID: album.ID, ObjectKey: key, Filename: "item.jpg", MediaKind: "image",
		})
	}
	items, err := cat.InsertImages(ctx, newItems)
	if err != nil {
		t.Fatalf("InsertImages: %v", err)
	}

	return &fixture{
		cat:     cat,
		store:   store,
		coord:   New(cat, store, preview.ThumbKey),
		albumID: album.ID,
		items:   items,
	}
}

func TestDeleteImageRemovesBlobThumbAndRow(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	target := f.items[0]

	if err := f.coord.DeleteImage(ctx, f.albumID, target.ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}

	if f.store.Has(target.ObjectKey) {
		t.Error("blob still present")
	}
	if f.store.Has(preview.ThumbKey(target.ObjectKey)) {
		t.Error("thumbnail still present")
	}
	if _, err := f.cat.GetImage(ctx, target.ID); archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("row still present: %v", err)
	}

	// Sibling untouched.
	if !f.store.Has(f.items[1].ObjectKey) {
		t.Error("sibling blob removed")
	}
}

func TestDeleteImageIdempotentBlobAbsence(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	target := f.items[0]

	// Simulate a previously half-finished delete: blob already gone.
	if err := f.store.Delete(ctx, target.ObjectKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := f.coord.DeleteImage(ctx, f.albumID, target.ID); err != nil {
		t.Fatalf("DeleteImage with absent blob: %v", err)
	}
	if _, err := f.cat.GetImage(ctx, target.ID); archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("row still present: %v", err)
	}
}

func TestDeleteImageBlobFailureKeepsRow(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	target := f.items[0]

	boom := errors.New("store offline")
	f.store.FailDelete = func(key string) error {
		if key == target.ObjectKey {
			return boom
		}
		return nil
	}

	err := f.coord.DeleteImage(ctx, f.albumID, target.ID)
	if archerr.KindOf(err) != archerr.KindUnavailable {
		t.Fatalf("err = %v, want unavailable", err)
	}

	// Row must survive a failed blob delete: never a leaked blob with
	// no reference.
	if _, err := f.cat.GetImage(ctx, target.ID); err != nil {
		t.Errorf("row should remain: %v", err)
	}
}

func TestDeleteImageWrongAlbum(t *testing.T) {
	f := newFixture(t, 1)
	err := f.coord.DeleteImage(context.Background(), f.albumID+100, f.items[0].ID)
	if archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("err = %v, want not-found", err)
	}
	if !f.store.Has(f.items[0].ObjectKey) {
		t.Error("blob removed despite album mismatch")
	}
}

func TestDeleteImageMissing(t *testing.T) {
	f := newFixture(t, 1)
	err := f.coord.DeleteImage(context.Background(), f.albumID, 99999)
	if archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestDeleteAlbumRefusesNonEmpty(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	err := f.coord.DeleteAlbum(ctx, f.albumID)
	if archerr.KindOf(err) != archerr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}

	// Nothing mutated: album still there.
	if _, err := f.cat.GetAlbum(ctx, f.albumID); err != nil {
		t.Errorf("album gone after refused delete: %v", err)
	}
}

func TestDeleteAlbumEmptySucceeds(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	if err := f.coord.DeleteImage(ctx, f.albumID, f.items[0].ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := f.coord.DeleteAlbum(ctx, f.albumID); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	if _, err := f.cat.GetAlbum(ctx, f.albumID); archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("album still present: %v", err)
	}
}

func TestDeleteAlbumMissing(t *testing.T) {
	f := newFixture(t, 0)
	err := f.coord.DeleteAlbum(context.Background(), 424242)
	if archerr.KindOf(err) != archerr.KindNotFound {
		t.Errorf("err = %v, want not-found", err)
	}
}
