package cache

import (
	"fmt"
	"strings"
)

// Snapshot is a copy of the cache's tag contents at one point in time.
type Snapshot struct {
	Associativity int
	Sets          [][]Line
}

// Occupied counts the valid lines.
func (s Snapshot) Occupied() int {
	n := 0
	for _, set := range s.Sets {
		for _, line := range set {
			if line.IsValid {
				n++
			}
		}
	}

	return n
}

// Tags returns the valid tags of a set in way order.
func (s Snapshot) Tags(index int) []uint64 {
	tags := []uint64{}
	for _, line := range s.Sets[index] {
		if line.IsValid {
			tags = append(tags, line.Tag)
		}
	}

	return tags
}

// Lines renders one string per set. Direct-mapped caches print
// "Cache Line i: 0x3"; set-associative caches print "Set i: [0x3, Empty]".
func (s Snapshot) Lines() []string {
	out := make([]string, 0, len(s.Sets))

	for i, set := range s.Sets {
		if s.Associativity == 1 {
			out = append(out, fmt.Sprintf("Cache Line %d: %s", i, formatLine(set[0])))
			continue
		}

		ways := make([]string, len(set))
		for w, line := range set {
			ways[w] = formatLine(line)
		}
		out = append(out, fmt.Sprintf("Set %d: [%s]", i, strings.Join(ways, ", ")))
	}

	return out
}

// Text renders the snapshot under a heading, one set per line.
func (s Snapshot) Text(heading string) string {
	return heading + "\n" + strings.Join(s.Lines(), "\n")
}

func formatLine(line Line) string {
	if !line.IsValid {
		return "Empty"
	}

	return fmt.Sprintf("0x%x", line.Tag)
}
