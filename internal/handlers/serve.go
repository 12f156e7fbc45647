package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"photo-archive/internal/blobstore"
	"photo-archive/internal/logging"
)

// immutableCache is safe because object keys embed a fresh UUID; the
// bytes under a key never change.
const immutableCache = "public, max-age=31536000, immutable"

// GetObject streams one stored object. Absent objects and an
// unreachable store both answer 404; the distinction only matters in
// the logs, a browser retries the image either way.
func (h *Handlers) GetObject(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "object key required", http.StatusBadRequest)
		return
	}

	rc, info, err := h.store.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			logging.Error("object fetch for %s failed: %v", key, err)
		}
		http.Error(w, "object not found", http.StatusNotFound)
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", immutableCache)

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is note the broken stream.
		logging.Debug("streaming %s aborted: %v", key, err)
	}
}
