package gallery

import (
	"sync"

	"photo-archive/internal/catalog"
)

// State is the ordered collection of loaded media items for one album
// plus the pagination cursor. A mutex guards it so the fetch goroutine
// and readers on other goroutines never observe a half-applied page.
type State struct {
	mu         sync.Mutex
	albumID    int64
	items      []catalog.MediaItem
	nextOffset *int
	hasMore    bool
	epoch      uint64
}

// NewState returns an empty state. Call Reset before the first fetch.
func NewState() *State {
	return &State{}
}

// Reset clears the loaded items and points the state at albumID. The
// epoch is bumped so any fetch still in flight for the previous album
// gets discarded on arrival. Returns the new epoch.
func (s *State) Reset(albumID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albumID = albumID
	s.items = nil
	s.nextOffset = nil
	s.hasMore = true
	s.epoch++
	return s.epoch
}

// Append applies a fetched page tagged with the epoch captured when
// the fetch started. A stale page (the state was reset meanwhile) is
// silently dropped. Reports whether the page was applied.
func (s *State) Append(page *catalog.Page, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.items = append(s.items, page.Items...)
	s.hasMore = page.HasMore
	s.nextOffset = page.NextOffset
	return true
}

// RemoveItem drops the item with the given id from the loaded list.
// Reports whether it was present.
func (s *State) RemoveItem(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// AlbumID returns the album the state currently points at.
func (s *State) AlbumID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.albumID
}

// Epoch returns the current epoch.
func (s *State) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Len returns the number of loaded items.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Item returns the loaded item at index i, if i is in range.
func (s *State) Item(i int) (catalog.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return catalog.MediaItem{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the loaded items in order.
func (s *State) Items() []catalog.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.MediaItem, len(s.items))
	copy(out, s.items)
	return out
}

// HasMore reports whether the server holds rows beyond the loaded ones.
func (s *State) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// NextOffset returns the offset of the next unloaded page, or nil when
// nothing has been loaded yet or no more rows exist.
func (s *State) NextOffset() *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextOffset
}

// cursor returns the album, epoch and next offset in one critical
// section, so a fetch captures a consistent view.
func (s *State) cursor() (albumID int64, epoch uint64, nextOffset *int, hasMore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.albumID, s.epoch, s.nextOffset, s.hasMore
}
