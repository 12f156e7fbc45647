package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"photo-archive/internal/archerr"
	"photo-archive/internal/metrics"
)

// albumCoverExpr selects the object key of the most-recently-captured
// image in the album: capture time descending, undated items last, ties
// broken by id descending. Matches the pagination order so the cover is
// always the first item of the first page.
const albumCoverExpr = `(
	SELECT i.object_key FROM images i
	WHERE i.album_id = a.id
	ORDER BY (i.taken_at IS NULL) ASC, i.taken_at DESC, i.id DESC
	LIMIT 1
)`

// CreateAlbum inserts a new album with the given name (trimmed, must be
// non-empty) and returns it.
func (c *Catalog) CreateAlbum(ctx context.Context, name string) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("create_album", time.Since(start).Seconds(), err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, archerr.Validation("album name is required")
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res sql.Result
	res, err = c.db.ExecContext(opCtx, `INSERT INTO albums (name) VALUES (?)`, name)
	if err != nil {
		err = fmt.Errorf("inserting album: %w", err)
		return nil, err
	}

	id, idErr := res.LastInsertId()
	if idErr != nil {
		err = fmt.Errorf("reading album id: %w", idErr)
		return nil, err
	}

	return c.GetAlbum(ctx, id)
}

// ListAlbums returns all albums, newest first, with derived image count
// and cover key.
func (c *Catalog) ListAlbums(ctx context.Context) ([]Album, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("list_albums", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT a.id, a.name, a.created_at,
			(SELECT COUNT(*) FROM images i WHERE i.album_id = a.id),
			` + albumCoverExpr + `
		FROM albums a
		ORDER BY a.created_at DESC, a.id DESC`

	var rows *sql.Rows
	rows, err = c.db.QueryContext(opCtx, query)
	if err != nil {
		err = fmt.Errorf("listing albums: %w", err)
		return nil, err
	}
	defer rows.Close()

	albums := []Album{}
	for rows.Next() {
		var a Album
		var createdAt int64
		var cover sql.NullString
		if err = rows.Scan(&a.ID, &a.Name, &createdAt, &a.ImageCount, &cover); err != nil {
			err = fmt.Errorf("scanning album: %w", err)
			return nil, err
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		if cover.Valid {
			a.CoverKey = &cover.String
		}
		albums = append(albums, a)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating albums: %w", err)
		return nil, err
	}
	return albums, nil
}

// GetAlbum returns one album with derived fields, or a not-found error.
func (c *Catalog) GetAlbum(ctx context.Context, id int64) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("get_album", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT a.id, a.name, a.created_at,
			(SELECT COUNT(*) FROM images i WHERE i.album_id = a.id),
			` + albumCoverExpr + `
		FROM albums a
		WHERE a.id = ?`

	var a Album
	var createdAt int64
	var cover sql.NullString
	err = c.db.QueryRowContext(opCtx, query, id).Scan(&a.ID, &a.Name, &createdAt, &a.ImageCount, &cover)
	if errors.Is(err, sql.ErrNoRows) {
		err = archerr.NotFound("album not found")
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("getting album %d: %w", id, err)
		return nil, err
	}

	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	if cover.Valid {
		a.CoverKey = &cover.String
	}
	return &a, nil
}

// CountImages returns the number of media items in the album.
func (c *Catalog) CountImages(ctx context.Context, albumID int64) (int, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("count_images", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err = c.db.QueryRowContext(opCtx, `SELECT COUNT(*) FROM images WHERE album_id = ?`, albumID).Scan(&count)
	if err != nil {
		err = fmt.Errorf("counting images in album %d: %w", albumID, err)
		return 0, err
	}
	return count, nil
}

// DeleteAlbum removes the album row. The caller is responsible for the
// empty-album guard; this only reports not-found for a missing row.
func (c *Catalog) DeleteAlbum(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordCatalogQuery("delete_album", time.Since(start).Seconds(), err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res sql.Result
	res, err = c.db.ExecContext(opCtx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		err = fmt.Errorf("deleting album %d: %w", id, err)
		return err
	}

	affected, raErr := res.RowsAffected()
	if raErr != nil {
		err = fmt.Errorf("checking album delete: %w", raErr)
		return err
	}
	if affected == 0 {
		err = archerr.NotFound("album not found")
		return err
	}
	return nil
}
