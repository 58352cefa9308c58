package cache

// A VictimFinder decides which line of a set receives a missing block.
type VictimFinder interface {
	FindVictim(set *Set) int
}

// LRUVictimFinder picks an empty line if there is one, otherwise the least
// recently used line of the set.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// FindVictim returns the way to fill.
func (e *LRUVictimFinder) FindVictim(set *Set) int {
	for _, way := range set.LRUQueue {
		if !set.Lines[way].IsValid {
			return way
		}
	}

	return set.LRUQueue[0]
}
