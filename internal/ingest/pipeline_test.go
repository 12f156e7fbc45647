package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func newTestAlbum(t *testing.T, c *catalog.Catalog) int64 {
	t.Helper()
	album, err := c.CreateAlbum(context.Background(), "ingest test")
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	return album.ID
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func sourcesN(t *testing.T, n int) []Source {
	t.Helper()
	data := pngBytes(t)
	srcs := make([]Source, n)
	for i := range srcs {
		srcs[i] = Source{Filename: fmt.Sprintf("pic-%d.png", i), Data: data}
	}
	return srcs
}

func TestProcessAllSucceed(t *testing.T) {
	cat := newTestCatalog(t)
	albumID := newTestAlbum(t, cat)
	store := blobstore.NewMemory()
	p := New(cat, store, 2, true)

	summary := p.Process(context.Background(), albumID, sourcesN(t, 5))

	if summary.Succeeded != 5 || summary.Failed != 0 {
		t.Fatalf("summary = %d/%d, want 5/0", summary.Succeeded, summary.Failed)
	}

	created := summary.Created()
	if len(created) != 5 {
		t.Fatalf("created = %d rows", len(created))
	}
	for i, item := range created {
		if item.Filename != fmt.Sprintf("pic-%d.png", i) {
			t.Errorf("created[%d] = %s, out of submission order", i, item.Filename)
		}
		if !store.Has(item.ObjectKey) {
			t.Errorf("no blob under %s", item.ObjectKey)
		}
		if item.MediaKind != "image" {
			t.Errorf("MediaKind = %s", item.MediaKind)
		}
	}

	count, err := cat.CountImages(context.Background(), albumID)
	if err != nil {
		t.Fatalf("CountImages: %v", err)
	}
	if count != 5 {
		t.Errorf("catalog rows = %d, want 5", count)
	}

	// PNG sources are decodable, so thumbnails must exist too.
	thumbs := 0
	for _, key := range store.Keys() {
		if strings.Contains(key, "/thumbs/") {
			thumbs++
		}
	}
	if thumbs != 5 {
		t.Errorf("thumbnails = %d, want 5", thumbs)
	}
}

func TestProcessIsolatesBlobFailure(t *testing.T) {
	cat := newTestCatalog(t)
	albumID := newTestAlbum(t, cat)
	store := blobstore.NewMemory()

	// Fail exactly one of the concurrent blob writes.
	var mu sync.Mutex
	var puts int
	boom := errors.New("disk on fire")
	store.FailPut = func(key string) error {
		mu.Lock()
		defer mu.Unlock()
		puts++
		if puts == 2 {
			return boom
		}
		return nil
	}

	p := New(cat, store, 10, false)
	summary := p.Process(context.Background(), albumID, sourcesN(t, 4))

	if summary.Succeeded != 3 || summary.Failed != 1 {
		t.Fatalf("summary = %d/%d, want 3/1", summary.Succeeded, summary.Failed)
	}

	errored := 0
	for _, r := range summary.Items {
		switch r.Status {
		case StatusError:
			errored++
			if !errors.Is(r.Err, boom) {
				t.Errorf("item error = %v, want wrapped cause", r.Err)
			}
		case StatusDone:
			if r.Item == nil {
				t.Error("done item without catalog row")
			}
		default:
			t.Errorf("non-terminal status %s", r.Status)
		}
	}
	if errored != 1 {
		t.Errorf("errored items = %d, want 1", errored)
	}

	// No catalog row may exist for the failed item.
	count, err := cat.CountImages(context.Background(), albumID)
	if err != nil {
		t.Fatalf("CountImages: %v", err)
	}
	if count != 3 {
		t.Errorf("catalog rows = %d, want 3", count)
	}
}

// failingInserter fails every insert, simulating a catalog outage after
// the blobs were already written.
type failingInserter struct {
	err error
}

func (f *failingInserter) InsertImages(_ context.Context, _ []catalog.NewItem) ([]catalog.MediaItem, error) {
	return nil, f.err
}

func TestProcessCleansUpOrphanedBlobs(t *testing.T) {
	store := blobstore.NewMemory()
	insertErr := errors.New("catalog down")
	p := New(&failingInserter{err: insertErr}, store, 10, true)

	summary := p.Process(context.Background(), 7, sourcesN(t, 3))

	if summary.Succeeded != 0 || summary.Failed != 3 {
		t.Fatalf("summary = %d/%d, want 0/3", summary.Succeeded, summary.Failed)
	}
	for _, r := range summary.Items {
		if r.Status != StatusError {
			t.Errorf("status = %s, want error", r.Status)
		}
		if !errors.Is(r.Err, insertErr) {
			t.Errorf("err = %v, want wrapped insert failure", r.Err)
		}
	}

	// Every written blob (and thumbnail) must have been deleted again.
	if keys := store.Keys(); len(keys) != 0 {
		t.Errorf("orphaned blobs left behind: %v", keys)
	}
}

func TestProcessCallerTakenAtWins(t *testing.T) {
	cat := newTestCatalog(t)
	albumID := newTestAlbum(t, cat)
	store := blobstore.NewMemory()
	p := New(cat, store, 5, false)

	taken := time.Date(2019, 8, 15, 10, 30, 0, 0, time.UTC)
	srcs := []Source{{Filename: "dated.png", Data: pngBytes(t), TakenAt: &taken}}

	summary := p.Process(context.Background(), albumID, srcs)
	if summary.Succeeded != 1 {
		t.Fatalf("summary: %+v", summary)
	}
	item := summary.Created()[0]
	if item.TakenAt == nil || !item.TakenAt.Equal(taken) {
		t.Errorf("TakenAt = %v, want %v", item.TakenAt, taken)
	}
}

func TestProcessToleratesMissingExif(t *testing.T) {
	cat := newTestCatalog(t)
	albumID := newTestAlbum(t, cat)
	store := blobstore.NewMemory()
	p := New(cat, store, 5, true)

	// Bytes that are neither EXIF-bearing nor decodable: extraction and
	// thumbnailing both fail, the item still lands.
	srcs := []Source{{Filename: "scan.jpg", Data: []byte("not actually a jpeg")}}

	summary := p.Process(context.Background(), albumID, srcs)
	if summary.Succeeded != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %d/%d, want 1/0", summary.Succeeded, summary.Failed)
	}
	item := summary.Created()[0]
	if item.TakenAt != nil {
		t.Errorf("TakenAt = %v, want nil", item.TakenAt)
	}
	for _, key := range store.Keys() {
		if strings.Contains(key, "/thumbs/") {
			t.Errorf("unexpected thumbnail %s for undecodable image", key)
		}
	}
}

func TestProcessOtherFileKind(t *testing.T) {
	cat := newTestCatalog(t)
	albumID := newTestAlbum(t, cat)
	store := blobstore.NewMemory()
	p := New(cat, store, 5, true)

	summary := p.Process(context.Background(), albumID, []Source{
		{Filename: "notes.pdf", Data: []byte("%PDF-1.4")},
		{Filename: "clip.mp4", Data: []byte("\x00\x00\x00\x18ftypmp42")},
	})
	if summary.Succeeded != 2 {
		t.Fatalf("summary: %d/%d", summary.Succeeded, summary.Failed)
	}
	created := summary.Created()
	if created[0].MediaKind != "other" {
		t.Errorf("pdf kind = %s, want other", created[0].MediaKind)
	}
	if created[1].MediaKind != "video" {
		t.Errorf("mp4 kind = %s, want video", created[1].MediaKind)
	}
}

func TestAdvanceRefusesIllegalTransition(t *testing.T) {
	r := Result{Filename: "x", Status: StatusDone}
	r.advance(StatusUploading)
	if r.Status != StatusDone {
		t.Errorf("status = %s, illegal transition applied", r.Status)
	}

	r = Result{Filename: "y", Status: StatusPending}
	r.advance(StatusDone) // must go through uploading first
	if r.Status != StatusPending {
		t.Errorf("status = %s, pending may only advance to uploading", r.Status)
	}
}
