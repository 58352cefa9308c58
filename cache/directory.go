package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/config"
)

// DirectoryModel is a Model built on Akita's cache directory and LRU victim
// finder. It behaves the same as DirectMapped and SetAssociative and serves
// as an independent implementation to check them against.
type DirectoryModel struct {
	layout address.Layout
	ways   int

	// Akita cache directory for tag management. Akita tags hold the
	// block-aligned address rather than the tag field.
	directory *akitacache.DirectoryImpl

	stats Statistics
}

// NewDirectoryModel creates an empty directory-backed cache.
func NewDirectoryModel(cfg config.Config) (*DirectoryModel, error) {
	layout, err := address.NewLayout(cfg)
	if err != nil {
		return nil, err
	}

	return &DirectoryModel{
		layout: layout,
		ways:   cfg.Associativity,
		directory: akitacache.NewDirectory(
			int(layout.NumSets),
			cfg.Associativity,
			int(layout.BlockSize),
			akitacache.NewLRUVictimFinder(),
		),
	}, nil
}

// Access looks up addr in the directory, filling or replacing a block on a
// miss.
func (m *DirectoryModel) Access(addr uint64) AccessResult {
	fields := m.layout.Decode(addr)
	blockAddr := m.layout.BlockAddress(addr)
	result := AccessResult{Fields: fields}

	block := m.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		result.Verdict = Hit
		result.Way = block.WayID
		m.directory.Visit(block) // Update LRU
		m.stats.record(result)
		return result
	}

	result.Verdict = Miss

	victim := m.directory.FindVictim(blockAddr)
	if victim == nil {
		// Only locked blocks can be skipped, and this model never locks.
		m.stats.record(result)
		return result
	}

	if victim.IsValid {
		result.Evicted = true
		result.EvictedTag = m.layout.Decode(victim.Tag).Tag
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	result.Way = victim.WayID

	m.directory.Visit(victim)
	m.stats.record(result)

	return result
}

// Layout returns the address decomposition the cache uses.
func (m *DirectoryModel) Layout() address.Layout {
	return m.layout
}

// Snapshot converts the directory's blocks into lines holding tag fields.
func (m *DirectoryModel) Snapshot() Snapshot {
	sets := m.directory.GetSets()
	s := Snapshot{
		Associativity: m.ways,
		Sets:          make([][]Line, len(sets)),
	}

	for i, set := range sets {
		lines := make([]Line, m.ways)
		for _, block := range set.Blocks {
			if block.IsValid {
				lines[block.WayID] = Line{
					Tag:     m.layout.Decode(block.Tag).Tag,
					IsValid: true,
				}
			}
		}
		s.Sets[i] = lines
	}

	return s
}

// Stats returns the access counters.
func (m *DirectoryModel) Stats() Statistics {
	return m.stats
}

// Reset invalidates every block and clears the counters.
func (m *DirectoryModel) Reset() {
	m.directory.Reset()
	m.stats = Statistics{}
}
