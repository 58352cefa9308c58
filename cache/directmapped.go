package cache

import "github.com/sarchlab/cachemap/address"

// DirectMapped is a cache with exactly one line per index. The line at the
// mapped index is always the replacement target.
type DirectMapped struct {
	layout address.Layout
	tags   *TagArray
	stats  Statistics
}

// NewDirectMapped creates an empty direct-mapped cache.
func NewDirectMapped(layout address.Layout) *DirectMapped {
	return &DirectMapped{
		layout: layout,
		tags:   NewTagArray(int(layout.NumSets), 1),
	}
}

// Access looks up addr and replaces the mapped line on a miss.
func (c *DirectMapped) Access(addr uint64) AccessResult {
	fields := c.layout.Decode(addr)
	result := AccessResult{Fields: fields}

	if _, ok := c.tags.Lookup(fields.Index, fields.Tag); ok {
		result.Verdict = Hit
		c.stats.record(result)
		return result
	}

	result.Verdict = Miss
	previous := c.tags.Fill(fields.Index, 0, fields.Tag)
	if previous.IsValid {
		result.Evicted = true
		result.EvictedTag = previous.Tag
	}

	c.stats.record(result)

	return result
}

// Layout returns the address decomposition the cache uses.
func (c *DirectMapped) Layout() address.Layout {
	return c.layout
}

// Snapshot copies the current line contents.
func (c *DirectMapped) Snapshot() Snapshot {
	return c.tags.Snapshot()
}

// Stats returns the access counters.
func (c *DirectMapped) Stats() Statistics {
	return c.stats
}

// Reset empties every line and clears the counters.
func (c *DirectMapped) Reset() {
	c.tags.Reset()
	c.stats = Statistics{}
}
