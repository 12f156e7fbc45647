package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photo-archive/internal/archerr"
	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
	"photo-archive/internal/deletion"
	"photo-archive/internal/ingest"
	"photo-archive/internal/startup"
)

type Handlers struct {
	catalog  *catalog.Catalog
	store    blobstore.Store
	pipeline *ingest.Pipeline
	deletion *deletion.Coordinator

	defaultPageSize int
	pageSizeLimit   int
	startTime       time.Time
}

func New(cat *catalog.Catalog, store blobstore.Store, pipe *ingest.Pipeline, del *deletion.Coordinator, config *startup.Config) *Handlers {
	return &Handlers{
		catalog:         cat,
		store:           store,
		pipeline:        pipe,
		deletion:        del,
		defaultPageSize: config.DefaultPageSize,
		pageSizeLimit:   config.PageSizeLimit,
		startTime:       time.Now(),
	}
}

// Router builds the full route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/albums", h.ListAlbums).Methods("GET")
	api.HandleFunc("/albums", h.CreateAlbum).Methods("POST")
	api.HandleFunc("/albums/{id:[0-9]+}", h.GetAlbum).Methods("GET")
	api.HandleFunc("/albums/{id:[0-9]+}", h.DeleteAlbum).Methods("DELETE")
	api.HandleFunc("/albums/{id:[0-9]+}/images", h.ListImages).Methods("GET")
	api.HandleFunc("/albums/{id:[0-9]+}/images", h.UploadImages).Methods("POST")
	api.HandleFunc("/albums/{id:[0-9]+}/images/{imageId:[0-9]+}", h.DeleteImage).Methods("DELETE")
	api.HandleFunc("/images/{key:.*}", h.GetObject).Methods("GET")

	return r
}

// pathID parses a numeric path variable. The route patterns already
// constrain these to digits, so a parse failure means a caller bypassed
// the router (tests) or the value overflows.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, archerr.Validation("invalid " + name)
	}
	return id, nil
}
