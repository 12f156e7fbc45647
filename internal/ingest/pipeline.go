package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
	"photo-archive/internal/logging"
	"photo-archive/internal/mediatypes"
	"photo-archive/internal/metrics"
	"photo-archive/internal/preview"
)

// putTimeout bounds one blob write including retries.
const putTimeout = 30 * time.Second

// Inserter is the slice of the catalog the pipeline needs.
type Inserter interface {
	InsertImages(ctx context.Context, items []catalog.NewItem) ([]catalog.MediaItem, error)
}

// Source is one file submitted for ingestion.
type Source struct {
	Filename string
	Data     []byte
	// TakenAt is the caller-provided capture time. Nil means the
	// pipeline attempts EXIF extraction from Data.
	TakenAt *time.Time
}

// Result is the terminal outcome of one source.
type Result struct {
	Filename string
	Status   Status
	// Err is set when Status is StatusError.
	Err error
	// Item is the created catalog row when Status is StatusDone.
	Item *catalog.MediaItem
}

// Summary reports the whole run once every item is terminal.
type Summary struct {
	Succeeded int
	Failed    int
	Items     []Result
}

// Created returns the catalog rows of all succeeded items, in
// submission order.
func (s *Summary) Created() []catalog.MediaItem {
	created := make([]catalog.MediaItem, 0, s.Succeeded)
	for _, r := range s.Items {
		if r.Status == StatusDone && r.Item != nil {
			created = append(created, *r.Item)
		}
	}
	return created
}

// Pipeline ingests batches of files for one album at a time.
type Pipeline struct {
	catalog    Inserter
	store      blobstore.Store
	batchSize  int
	thumbnails bool
}

// New builds a pipeline. batchSize must be at least 1.
func New(cat Inserter, store blobstore.Store, batchSize int, thumbnails bool) *Pipeline {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Pipeline{catalog: cat, store: store, batchSize: batchSize, thumbnails: thumbnails}
}

// blobWrite is the per-item outcome of the concurrent write phase.
type blobWrite struct {
	index     int
	objectKey string
	thumbKey  string
	newItem   catalog.NewItem
	err       error
}

// Process runs every source through the pipeline and returns when all
// items have reached a terminal status. One file's failure never aborts
// its siblings; batches are processed strictly in submission order.
func (p *Pipeline) Process(ctx context.Context, albumID int64, sources []Source) *Summary {
	results := make([]Result, len(sources))
	for i, src := range sources {
		results[i] = Result{Filename: src.Filename, Status: StatusPending}
	}

	for start := 0; start < len(sources); start += p.batchSize {
		end := start + p.batchSize
		if end > len(sources) {
			end = len(sources)
		}
		p.processBatch(ctx, albumID, sources[start:end], results[start:end])
		metrics.IngestBatchesTotal.Inc()
	}

	summary := &Summary{Items: results}
	for i := range results {
		switch results[i].Status {
		case StatusDone:
			summary.Succeeded++
		default:
			// A non-terminal status here is a pipeline bug; count it as
			// failed rather than report a silent partial success.
			if results[i].Status != StatusError {
				logging.Error("ingest item %q finished in non-terminal status %s", results[i].Filename, results[i].Status)
				results[i].Status = StatusError
				results[i].Err = fmt.Errorf("item never reached a terminal status")
			}
			summary.Failed++
		}
		metrics.IngestItemsTotal.WithLabelValues(string(results[i].Status)).Inc()
	}
	return summary
}

// processBatch writes all blobs of the batch concurrently, then inserts
// the catalog rows of the successful writes in one transaction.
func (p *Pipeline) processBatch(ctx context.Context, albumID int64, sources []Source, results []Result) {
	writes := make([]blobWrite, len(sources))

	var wg sync.WaitGroup
	for i := range sources {
		results[i].advance(StatusUploading)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			writes[i] = p.writeBlob(ctx, albumID, i, sources[i])
		}(i)
	}
	wg.Wait()

	// Collect rows for the successful writes, preserving submission order.
	newItems := make([]catalog.NewItem, 0, len(writes))
	inserted := make([]int, 0, len(writes))
	for i := range writes {
		if writes[i].err != nil {
			results[i].Err = writes[i].err
			results[i].advance(StatusError)
			continue
		}
		newItems = append(newItems, writes[i].newItem)
		inserted = append(inserted, i)
	}
	if len(newItems) == 0 {
		return
	}

	created, err := p.catalog.InsertImages(ctx, newItems)
	if err != nil {
		// The blobs exist but their rows never will: delete them again,
		// or they become unreachable dead weight.
		logging.Error("batch insert failed, removing %d orphaned blobs: %v", len(inserted), err)
		for _, i := range inserted {
			p.cleanupBlob(writes[i].objectKey, writes[i].thumbKey)
			results[i].Err = fmt.Errorf("catalog insert failed: %w", err)
			results[i].advance(StatusError)
		}
		return
	}

	for n, i := range inserted {
		item := created[n]
		results[i].Item = &item
		results[i].advance(StatusDone)
	}
}

// writeBlob extracts metadata, derives the object key and writes the
// blob (plus a best-effort thumbnail for images).
func (p *Pipeline) writeBlob(ctx context.Context, albumID int64, index int, src Source) blobWrite {
	ext := mediatypes.Ext(src.Filename)
	contentType := mediatypes.GetContentType(ext)
	kind := mediatypes.GetKind(ext)
	objectKey := fmt.Sprintf("albums/%d/%s%s", albumID, uuid.New(), ext)

	takenAt := src.TakenAt
	if takenAt == nil && kind == mediatypes.KindImage {
		takenAt = extractTakenAt(src.Data)
	}

	putCtx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	meta := map[string]string{
		"albumId":  fmt.Sprintf("%d", albumID),
		"filename": src.Filename,
	}
	if err := p.store.Put(putCtx, objectKey, src.Data, contentType, meta); err != nil {
		return blobWrite{index: index, err: fmt.Errorf("blob write failed: %w", err)}
	}

	write := blobWrite{
		index:     index,
		objectKey: objectKey,
		newItem: catalog.NewItem{
			AlbumID:   albumID,
			ObjectKey: objectKey,
			Filename:  src.Filename,
			TakenAt:   takenAt,
			Size:      int64(len(src.Data)),
			MediaKind: string(kind),
		},
	}

	if p.thumbnails && kind == mediatypes.KindImage {
		if thumb, err := preview.Generate(src.Data); err != nil {
			logging.Debug("no thumbnail for %q: %v", src.Filename, err)
		} else {
			write.thumbKey = preview.ThumbKey(objectKey)
			if err := p.store.Put(putCtx, write.thumbKey, thumb, "image/jpeg", meta); err != nil {
				logging.Warn("thumbnail write for %q failed: %v", src.Filename, err)
				write.thumbKey = ""
			}
		}
	}

	return write
}

// cleanupBlob compensates a failed batch insert. Deletion here is
// best-effort; a blob that survives is logged for manual cleanup.
func (p *Pipeline) cleanupBlob(objectKey, thumbKey string) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), putTimeout)
	defer cancel()

	if err := p.store.Delete(cleanupCtx, objectKey); err != nil {
		logging.Error("orphaned blob %s could not be removed: %v", objectKey, err)
	}
	if thumbKey != "" {
		if err := p.store.Delete(cleanupCtx, thumbKey); err != nil {
			logging.Error("orphaned thumbnail %s could not be removed: %v", thumbKey, err)
		}
	}
}
