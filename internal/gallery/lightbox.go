package gallery

import (
	"context"
	"sync"

	"photo-archive/internal/archerr"
	"photo-archive/internal/catalog"
)

// readAheadMargin is how close to the loaded boundary the selection may
// get before the next page is requested.
const readAheadMargin = 3

// Lightbox is index-based browsing over a State. Moving the selection
// near the loaded boundary requests the next page through the fetcher,
// so paging keeps up with the user without waiting for a scroll
// trigger. Both triggers share the fetcher's single-flight gate.
type Lightbox struct {
	state *State
	fetch *Fetcher

	mu    sync.Mutex
	open  bool
	index int
}

// NewLightbox wires a lightbox to the state it browses.
func NewLightbox(state *State, fetch *Fetcher) *Lightbox {
	return &Lightbox{state: state, fetch: fetch}
}

// Open selects the item at index i. i must address a loaded item.
func (l *Lightbox) Open(i int) error {
	if i < 0 || i >= l.state.Len() {
		return archerr.Validation("lightbox index out of range")
	}
	l.mu.Lock()
	l.open = true
	l.index = i
	l.mu.Unlock()
	l.readAhead()
	return nil
}

// Close deselects. Loaded items are kept.
func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
}

// Current returns the selected item, if the lightbox is open.
func (l *Lightbox) Current() (catalog.MediaItem, bool) {
	l.mu.Lock()
	open, index := l.open, l.index
	l.mu.Unlock()
	if !open {
		return catalog.MediaItem{}, false
	}
	return l.state.Item(index)
}

// Index returns the selected index, or -1 when closed.
func (l *Lightbox) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return -1
	}
	return l.index
}

// Next moves the selection forward. At the last loaded item it is a
// no-op; with more rows on the server the read-ahead below will have
// extended the list before the user gets there.
func (l *Lightbox) Next() {
	l.mu.Lock()
	if !l.open {
		l.mu.Unlock()
		return
	}
	if l.index < l.state.Len()-1 {
		l.index++
	}
	l.mu.Unlock()
	l.readAhead()
}

// Prev moves the selection back, stopping at the first item.
func (l *Lightbox) Prev() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return
	}
	if l.index > 0 {
		l.index--
	}
}

// readAhead requests the next page once the selection is within
// readAheadMargin of the loaded boundary and more rows exist.
func (l *Lightbox) readAhead() {
	l.mu.Lock()
	open, index := l.open, l.index
	l.mu.Unlock()
	if !open {
		return
	}
	if index >= l.state.Len()-readAheadMargin && l.state.HasMore() {
		// Fire and forget; navigation must not block on the network.
		// The fetch timeout bounds the detached request.
		go l.fetch.RequestNext(context.Background())
	}
}
