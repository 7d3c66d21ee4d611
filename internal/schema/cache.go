// Package schema keeps a read-mostly snapshot of index and field names
// fetched periodically from Elasticsearch.
package schema

import (
	"sort"
	"sync/atomic"
	"time"
)

// Snapshot is the schema known at one point in time. It is immutable once
// stored in a Cache.
type Snapshot struct {
	// Fields maps an index name to its field names in order.
	Fields    map[string][]string
	FetchedAt time.Time
}

// Indices returns the index names in sorted order.
func (s *Snapshot) Indices() []string {
	out := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Cache serves the latest snapshot to concurrent readers. Readers never
// block on a refresh.
type Cache struct {
	snap    atomic.Pointer[Snapshot]
	enabled atomic.Bool
}

// NewCache returns an empty, disabled cache.
func NewCache() *Cache {
	return &Cache{}
}

// Store replaces the current snapshot.
func (c *Cache) Store(s *Snapshot) {
	c.snap.Store(s)
}

// Snapshot returns the current snapshot, nil before the first refresh.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Clear drops the current snapshot.
func (c *Cache) Clear() {
	c.snap.Store(nil)
}

// Enabled reports whether a schema source is configured.
func (c *Cache) Enabled() bool {
	return c.enabled.Load()
}

// SetEnabled records whether a schema source is configured.
func (c *Cache) SetEnabled(v bool) {
	c.enabled.Store(v)
}

// ListIndices returns the known index names.
func (c *Cache) ListIndices() []string {
	s := c.snap.Load()
	if s == nil {
		return nil
	}
	return s.Indices()
}

// ListFields returns the known fields of index, none when it is unknown.
func (c *Cache) ListFields(index string) []string {
	s := c.snap.Load()
	if s == nil {
		return nil
	}
	return append([]string(nil), s.Fields[index]...)
}
