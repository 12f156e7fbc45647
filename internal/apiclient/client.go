package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"photo-archive/internal/archerr"
	"photo-archive/internal/catalog"
	"photo-archive/internal/gallery"
)

// uploadTimeout is generous because one request may carry a whole
// batch of originals.
const (
	requestTimeout = 30 * time.Second
	uploadTimeout  = 5 * time.Minute
)

// Client talks to one archive server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Upload is one file to send.
type Upload struct {
	Filename string
	Data     []byte
	// TakenAt overrides server-side timestamp extraction when set.
	TakenAt *time.Time
}

// UploadError is one file the server reported as failed.
type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResult is the server's per-batch upload report.
type UploadResult struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Data      []catalog.MediaItem `json:"data"`
	Errors    []UploadError       `json:"errors"`
}

// ListAlbums returns all albums, newest first.
func (c *Client) ListAlbums(ctx context.Context) ([]catalog.Album, error) {
	var albums []catalog.Album
	if err := c.getJSON(ctx, "/api/v1/albums", &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// CreateAlbum creates an album with the given name.
func (c *Client) CreateAlbum(ctx context.Context, name string) (*catalog.Album, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, "POST", "/api/v1/albums", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var album catalog.Album
	if err := c.doJSON(req, http.StatusCreated, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetAlbum returns one album with its derived fields.
func (c *Client) GetAlbum(ctx context.Context, id int64) (*catalog.Album, error) {
	var album catalog.Album
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/albums/%d", id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// DeleteAlbum deletes an empty album.
func (c *Client) DeleteAlbum(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/albums/%d", id), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, http.StatusOK, nil)
}

// ListImages returns one page of an album in the fixed total order.
func (c *Client) ListImages(ctx context.Context, albumID int64, limit, offset int) (*catalog.Page, error) {
	path := fmt.Sprintf("/api/v1/albums/%d/images?limit=%d&offset=%d", albumID, limit, offset)
	var page catalog.Page
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchPage satisfies gallery.PageFetcher.
func (c *Client) FetchPage(ctx context.Context, albumID int64, limit, offset int) (*catalog.Page, error) {
	return c.ListImages(ctx, albumID, limit, offset)
}

// DeleteImage deletes one media item from an album.
func (c *Client) DeleteImage(ctx context.Context, albumID, imageID int64) error {
	path := fmt.Sprintf("/api/v1/albums/%d/images/%d", albumID, imageID)
	req, err := c.newRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, http.StatusOK, nil)
}

// UploadImages sends a batch of files to an album. A result with
// Failed > 0 is not an error at this level; the caller decides how to
// report partial failure.
func (c *Client) UploadImages(ctx context.Context, albumID int64, uploads []Upload) (*UploadResult, error) {
	if len(uploads) == 0 {
		return nil, archerr.Validation("no files to upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	meta := make([]map[string]interface{}, 0, len(uploads))
	for _, up := range uploads {
		part, err := mw.CreateFormFile("files", up.Filename)
		if err != nil {
			return nil, fmt.Errorf("building upload request: %w", err)
		}
		if _, err := part.Write(up.Data); err != nil {
			return nil, fmt.Errorf("building upload request: %w", err)
		}
		meta = append(meta, map[string]interface{}{
			"filename": up.Filename,
			"takenAt":  up.TakenAt,
		})
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := mw.WriteField("metadata", string(metaJSON)); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	req, err := c.newRequest(uploadCtx, "POST", fmt.Sprintf("/api/v1/albums/%d/images", albumID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	// The default client timeout is too tight for big batches.
	httpClient := &http.Client{Timeout: uploadTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, archerr.Unavailable("archive server unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}

	// Partial failure comes back non-2xx but still carries the batch
	// report; prefer the report over a bare error.
	var result UploadResult
	if jsonErr := json.Unmarshal(raw, &result); jsonErr == nil && result.Succeeded+result.Failed > 0 {
		return &result, nil
	}
	return nil, decodeError(resp.StatusCode, raw)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := c.newRequest(ctx, "GET", path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, http.StatusOK, v)
}

// doJSON executes req and decodes the response into v when the status
// matches wantStatus. Any other status is translated back into a
// classified error from the server's error body.
func (c *Client) doJSON(req *http.Request, wantStatus int, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return archerr.Unavailable("archive server unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode != wantStatus {
		return decodeError(resp.StatusCode, raw)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError rebuilds a classified error from a server error body,
// falling back to the status code when the body is not ours.
func decodeError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch body.Kind {
	case "validation":
		return archerr.Validation(msg)
	case "not_found":
		return archerr.NotFound(msg)
	case "conflict":
		return archerr.Conflict(msg)
	case "unavailable":
		return archerr.Unavailable(msg, nil)
	}

	switch status {
	case http.StatusNotFound:
		return archerr.NotFound(msg)
	case http.StatusBadRequest:
		return archerr.Validation(msg)
	case http.StatusConflict:
		return archerr.Conflict(msg)
	case http.StatusServiceUnavailable:
		return archerr.Unavailable(msg, nil)
	}
	return archerr.Internal(msg, nil)
}

var _ gallery.PageFetcher = (*Client)(nil)
