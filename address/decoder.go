// Package address splits memory addresses into the tag, index, and offset
// fields a cache uses to locate a block.
package address

import (
	"fmt"

	"github.com/sarchlab/cachemap/config"
)

// Layout is the bit decomposition derived from a cache configuration.
type Layout struct {
	BlockSize  uint64
	NumSets    uint64
	MemorySize uint64

	TagBits    int
	IndexBits  int
	OffsetBits int
}

// Fields holds the decoded components of a single address.
type Fields struct {
	Tag    uint64
	Index  int
	Offset uint64
}

// NewLayout validates the configuration and derives its bit layout.
func NewLayout(cfg config.Config) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	numSets := cfg.NumSets()
	if !config.IsPowerOfTwo(numSets) {
		return Layout{}, config.NewConfigurationError(
			"num_sets", numSets, config.ErrNotPowerOfTwo)
	}

	offsetBits := config.Log2(cfg.BlockSize)
	indexBits := config.Log2(numSets)

	return Layout{
		BlockSize:  uint64(cfg.BlockSize),
		NumSets:    uint64(numSets),
		MemorySize: uint64(cfg.MemorySize),
		OffsetBits: offsetBits,
		IndexBits:  indexBits,
		TagBits:    config.Log2(cfg.MemorySize) - offsetBits - indexBits,
	}, nil
}

// AddressBits returns the width of an address in the configured memory.
func (l Layout) AddressBits() int {
	return l.TagBits + l.IndexBits + l.OffsetBits
}

// Decode splits addr into its tag, index, and offset.
func (l Layout) Decode(addr uint64) Fields {
	return Fields{
		Tag:    addr / (l.NumSets * l.BlockSize),
		Index:  int((addr / l.BlockSize) % l.NumSets),
		Offset: addr % l.BlockSize,
	}
}

// Compose rebuilds an address from its fields.
func (l Layout) Compose(f Fields) uint64 {
	return (f.Tag*l.NumSets+uint64(f.Index))*l.BlockSize + f.Offset
}

// BlockAddress returns addr rounded down to the start of its block.
func (l Layout) BlockAddress(addr uint64) uint64 {
	return addr / l.BlockSize * l.BlockSize
}

// InRange reports whether addr lies inside the configured memory.
func (l Layout) InRange(addr uint64) bool {
	return addr < l.MemorySize
}

// String renders the layout as the front end displays it.
func (l Layout) String() string {
	return fmt.Sprintf("Tag bits: %d\nIndex bits: %d\nOffset bits: %d",
		l.TagBits, l.IndexBits, l.OffsetBits)
}

// Binary renders addr in binary, zero-padded to 32 digits. Addresses wider
// than 32 bits are rendered in full.
func Binary(addr uint64) string {
	return fmt.Sprintf("%032b", addr)
}

// String renders the fields in hexadecimal.
func (f Fields) String() string {
	return fmt.Sprintf("tag=0x%x index=%d offset=%d", f.Tag, f.Index, f.Offset)
}
