// Package cache models the tag store of a direct-mapped or set-associative
// cache and replays memory references against it.
package cache

import (
	"fmt"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/config"
)

// Verdict is the outcome of a single cache access.
type Verdict int

// Access outcomes.
const (
	Miss Verdict = iota
	Hit
)

func (v Verdict) String() string {
	switch v {
	case Hit:
		return "Hit"
	case Miss:
		return "Miss"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Fields is the decoded address.
	Fields address.Fields
	// Verdict tells whether the tag was already present.
	Verdict Verdict
	// Way is the line within the set that now holds the tag.
	Way int
	// Evicted is true if a valid tag was overwritten.
	Evicted bool
	// EvictedTag is the tag that was overwritten (if Evicted is true).
	EvictedTag uint64
}

// Statistics holds cache access counters.
type Statistics struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

func (s *Statistics) record(r AccessResult) {
	s.Accesses++
	if r.Verdict == Hit {
		s.Hits++
	} else {
		s.Misses++
	}
	if r.Evicted {
		s.Evictions++
	}
}

// Model is a cache tag store that can replay references.
//
// Access expects an address inside the configured memory; range checking is
// the caller's job.
type Model interface {
	Access(addr uint64) AccessResult
	Snapshot() Snapshot
	Layout() address.Layout
	Stats() Statistics
	Reset()
}

// NewModel creates the model matching the configured associativity.
func NewModel(cfg config.Config) (Model, error) {
	layout, err := address.NewLayout(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Associativity == config.DirectMapped {
		return NewDirectMapped(layout), nil
	}

	return NewSetAssociative(layout, cfg.Associativity, NewLRUVictimFinder()), nil
}
