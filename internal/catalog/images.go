package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photo-archive/internal/archerr"
	"photo-archive/internal/logging"
	"photo-archive/internal/metrics"
)

const itemColumns = `id, album_id, object_key, filename, taken_at, size, media_kind, created_at`

// itemOrder is the fixed total order of the pagination contract:
// capture time descending with undated items last, id descending as the
// tie breaker. Offsets are only meaningful against this order.
const itemOrder = `ORDER BY (taken_at IS NULL) ASC, taken_at DESC, id DESC`

func scanItem(scanner interface{ Scan(...interface{}) error }) (MediaItem, error) {
	var item MediaItem
	var takenAt sql.NullInt64
	var createdAt int64
	err := scanner.Scan(&item.ID, &item.AlbumID, &item.ObjectKey, &item.Filename,
		&takenAt, &item.Size, &item.MediaKind, &createdAt)
	if err != nil {
		return item, err
	}
	item.TakenAt = scanTime(takenAt)
	item.CreatedAt = time.Unix(createdAt, 0).UTC()
	return item, nil
}

// ListImages returns one page of the album's items in the fixed total
// order, starting at offset. It fetches limit+1 rows and trims, so
// HasMore is true iff strictly more than limit rows remain and
// NextOffset is offset+limit exactly when it is.
func (c *Catalog) ListImages(ctx context.Context, albumID int64, limit, offset int) (*Page, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("list_images", time.Since(start).Seconds(), err) }()

	if limit < 1 {
		return nil, archerr.Validation("limit must be positive")
	}
	if offset < 0 {
		return nil, archerr.Validation("offset must not be negative")
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM images WHERE album_id = ? ` + itemOrder + ` LIMIT ? OFFSET ?`

	var rows *sql.Rows
	rows, err = c.db.QueryContext(opCtx, query, albumID, limit+1, offset)
	if err != nil {
		err = fmt.Errorf("listing images for album %d: %w", albumID, err)
		return nil, err
	}
	defer rows.Close()

	items := []MediaItem{}
	for rows.Next() {
		var item MediaItem
		if item, err = scanItem(rows); err != nil {
			err = fmt.Errorf("scanning image row: %w", err)
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating image rows: %w", err)
		return nil, err
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		next := offset + limit
		page.NextOffset = &next
	}
	return page, nil
}

// InsertImages inserts all items in one transaction and returns the
// created rows in insertion order. Either every row lands or none do;
// this is the all-or-nothing half of the batch ingest protocol.
func (c *Catalog) InsertImages(ctx context.Context, items []NewItem) ([]MediaItem, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("insert_images", time.Since(start).Seconds(), err) }()

	if len(items) == 0 {
		return []MediaItem{}, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var tx *sql.Tx
	tx, err = c.db.BeginTx(opCtx, nil)
	if err != nil {
		err = fmt.Errorf("beginning insert transaction: %w", err)
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Error("rollback after failed image insert: %v", rbErr)
			}
		}
	}()

	stmt, prepErr := tx.PrepareContext(opCtx,
		`INSERT INTO images (album_id, object_key, filename, taken_at, size, media_kind) VALUES (?, ?, ?, ?, ?, ?)`)
	if prepErr != nil {
		err = fmt.Errorf("preparing image insert: %w", prepErr)
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		res, execErr := stmt.ExecContext(opCtx, item.AlbumID, item.ObjectKey, item.Filename,
			nullableUnix(item.TakenAt), item.Size, item.MediaKind)
		if execErr != nil {
			err = fmt.Errorf("inserting image %q: %w", item.Filename, execErr)
			return nil, err
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			err = fmt.Errorf("reading image id: %w", idErr)
			return nil, err
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("committing image insert: %w", err)
		return nil, err
	}

	created := make([]MediaItem, 0, len(ids))
	for _, id := range ids {
		item, getErr := c.GetImage(ctx, id)
		if getErr != nil {
			err = getErr
			return nil, err
		}
		created = append(created, *item)
	}
	return created, nil
}

// GetImage returns one media item by id, or a not-found error.
func (c *Catalog) GetImage(ctx context.Context, id int64) (*MediaItem, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("get_image", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := c.db.QueryRowContext(opCtx, `SELECT `+itemColumns+` FROM images WHERE id = ?`, id)
	item, scanErr := scanItem(row)
	if errors.Is(scanErr, sql.ErrNoRows) {
		err = archerr.NotFound("image not found")
		return nil, err
	}
	if scanErr != nil {
		err = fmt.Errorf("getting image %d: %w", id, scanErr)
		return nil, err
	}
	return &item, nil
}

// DeleteImage removes the catalog row for the item.
func (c *Catalog) DeleteImage(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("delete_image", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res sql.Result
	res, err = c.db.ExecContext(opCtx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		err = fmt.Errorf("deleting image %d: %w", id, err)
		return err
	}

	affected, raErr := res.RowsAffected()
	if raErr != nil {
		err = fmt.Errorf("checking image delete: %w", raErr)
		return err
	}
	if affected == 0 {
		err = archerr.NotFound("image not found")
		return err
	}
	return nil
}
