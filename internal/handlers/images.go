package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"photo-archive/internal/archerr"
	"photo-archive/internal/catalog"
	"photo-archive/internal/ingest"
	"photo-archive/internal/logging"
)

// maxUploadMemory is the in-memory buffer for multipart parsing;
// larger uploads spill to temp files.
const maxUploadMemory = 64 << 20

// uploadMeta is one entry of the metadata part of an upload request,
// aligned by index with the files parts.
type uploadMeta struct {
	Filename string     `json:"filename"`
	TakenAt  *time.Time `json:"takenAt"`
}

// UploadFailure reports one file that did not make it.
type UploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResponse reports the outcome of a batch upload. Data holds the
// created items in submission order; partial failures are itemized so
// a partial success is never silent.
type UploadResponse struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Data      []catalog.MediaItem `json:"data"`
	Errors    []UploadFailure     `json:"errors,omitempty"`
}

func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.catalog.GetAlbum(r.Context(), albumID); err != nil {
		writeError(w, err)
		return
	}

	limit := h.defaultPageSize
	if v, convErr := strconv.Atoi(r.URL.Query().Get("limit")); convErr == nil && v > 0 {
		limit = v
	}
	if limit > h.pageSizeLimit {
		limit = h.pageSizeLimit
	}
	offset := 0
	if v, convErr := strconv.Atoi(r.URL.Query().Get("offset")); convErr == nil {
		offset = v
	}

	page, err := h.catalog.ListImages(r.Context(), albumID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, page)
}

func (h *Handlers) UploadImages(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.catalog.GetAlbum(r.Context(), albumID); err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, archerr.Validation("request must be multipart form data"))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, archerr.Validation("no files in request"))
		return
	}

	// The metadata part carries per-file details the multipart headers
	// cannot: the caller's capture timestamps. Absent or short metadata
	// falls back to the part's own filename and no timestamp.
	var meta []uploadMeta
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			writeError(w, archerr.Validation("metadata part must be a JSON array"))
			return
		}
	}

	sources := make([]ingest.Source, 0, len(files))
	for i, header := range files {
		f, openErr := header.Open()
		if openErr != nil {
			writeError(w, archerr.Internal("reading uploaded file", openErr))
			return
		}
		data, readErr := io.ReadAll(f)
		f.Close()
		if readErr != nil {
			writeError(w, archerr.Internal("reading uploaded file", readErr))
			return
		}

		src := ingest.Source{Filename: header.Filename, Data: data}
		if i < len(meta) {
			if meta[i].Filename != "" {
				src.Filename = meta[i].Filename
			}
			src.TakenAt = meta[i].TakenAt
		}
		sources = append(sources, src)
	}

	summary := h.pipeline.Process(r.Context(), albumID, sources)

	resp := UploadResponse{
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Data:      summary.Created(),
	}
	for _, item := range summary.Items {
		if item.Status == ingest.StatusError {
			resp.Errors = append(resp.Errors, UploadFailure{
				Filename: item.Filename,
				Error:    archerr.MessageOf(item.Err),
			})
		}
	}

	status := http.StatusCreated
	if summary.Failed > 0 {
		// The dominant per-item failure is the blob store or the
		// catalog being unreachable, so the batch-level status says so.
		// The body still itemizes what did land.
		status = http.StatusServiceUnavailable
		logging.Warn("upload to album %d: %d of %d files failed", albumID, summary.Failed, len(sources))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, resp)
}

func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	imageID, err := pathID(r, "imageId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.deletion.DeleteImage(r.Context(), albumID, imageID); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, "deleted")
}
