package ingest

import "photo-archive/internal/logging"

// Status is the lifecycle state of one item moving through the
// pipeline.
type Status string

const (
	// StatusPending means the item is queued and untouched.
	StatusPending Status = "pending"
	// StatusUploading means the item's blob write is in progress.
	StatusUploading Status = "uploading"
	// StatusDone means blob and catalog row both exist.
	StatusDone Status = "done"
	// StatusError means the item failed; sibling items are unaffected.
	StatusError Status = "error"
)

// legalTransitions is the full state machine: pending->uploading and
// uploading->{done,error}. Everything else is a bug in the pipeline.
var legalTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusUploading: true},
	StatusUploading: {StatusDone: true, StatusError: true},
}

// advance moves the item to the next status, refusing (and logging)
// illegal transitions so a sequencing bug cannot silently corrupt
// reported outcomes.
func (r *Result) advance(to Status) {
	if !legalTransitions[r.Status][to] {
		logging.Error("illegal ingest status transition %s -> %s for %q", r.Status, to, r.Filename)
		return
	}
	r.Status = to
}
