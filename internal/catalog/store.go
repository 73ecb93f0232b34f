package catalog

import "sync/atomic"

// Store publishes the active catalog snapshot. Requests read one
// consistent snapshot for their whole lifetime; Replace swaps in a new
// fully-validated catalog atomically, so in-flight requests never see a
// half-updated table set.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store serving the given catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Snapshot returns the active catalog. The returned value must be
// treated as read-only.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace atomically swaps in a new catalog. The caller is responsible
// for having validated it via Load.
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}
