package handlers

import (
	"encoding/json"
	"net/http"

	"photo-archive/internal/archerr"
)

// CreateAlbumRequest is the body of POST /api/v1/albums.
type CreateAlbumRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.catalog.ListAlbums(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, albums)
}

func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, archerr.Validation("request body must be JSON with a name field"))
		return
	}

	album, err := h.catalog.CreateAlbum(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, album)
}

func (h *Handlers) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	album, err := h.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, album)
}

func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.deletion.DeleteAlbum(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, "deleted")
}
