package cache

import "github.com/sarchlab/cachemap/address"

// SetAssociative is an N-way set-associative cache. Each set keeps its own
// recency order, so activity in one set never influences which line another
// set evicts.
type SetAssociative struct {
	layout       address.Layout
	tags         *TagArray
	victimFinder VictimFinder
	stats        Statistics
}

// NewSetAssociative creates an empty cache with the given number of ways per
// set. The layout must have been derived with the same associativity.
func NewSetAssociative(
	layout address.Layout,
	ways int,
	victimFinder VictimFinder,
) *SetAssociative {
	return &SetAssociative{
		layout:       layout,
		tags:         NewTagArray(int(layout.NumSets), ways),
		victimFinder: victimFinder,
	}
}

// Access looks up addr in its set. A hit refreshes the line's recency. A miss
// fills an empty line, or evicts the line the victim finder picks.
func (c *SetAssociative) Access(addr uint64) AccessResult {
	fields := c.layout.Decode(addr)
	result := AccessResult{Fields: fields}

	if way, ok := c.tags.Lookup(fields.Index, fields.Tag); ok {
		result.Verdict = Hit
		result.Way = way
		c.tags.Visit(fields.Index, way)
		c.stats.record(result)
		return result
	}

	result.Verdict = Miss
	result.Way = c.victimFinder.FindVictim(&c.tags.Sets[fields.Index])

	previous := c.tags.Fill(fields.Index, result.Way, fields.Tag)
	if previous.IsValid {
		result.Evicted = true
		result.EvictedTag = previous.Tag
	}

	c.tags.Visit(fields.Index, result.Way)
	c.stats.record(result)

	return result
}

// Ways returns the number of lines per set.
func (c *SetAssociative) Ways() int {
	return c.tags.NumWays
}

// RecencyOrder returns the ways of a set from least to most recently used.
func (c *SetAssociative) RecencyOrder(index int) []int {
	return append([]int(nil), c.tags.Sets[index].LRUQueue...)
}

// Layout returns the address decomposition the cache uses.
func (c *SetAssociative) Layout() address.Layout {
	return c.layout
}

// Snapshot copies the current line contents.
func (c *SetAssociative) Snapshot() Snapshot {
	return c.tags.Snapshot()
}

// Stats returns the access counters.
func (c *SetAssociative) Stats() Statistics {
	return c.stats
}

// Reset empties every set and clears the counters.
func (c *SetAssociative) Reset() {
	c.tags.Reset()
	c.stats = Statistics{}
}
