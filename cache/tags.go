package cache

// A Line is one slot of a set. An invalid line holds no tag.
type Line struct {
	Tag     uint64
	IsValid bool
}

// A Set is a fixed group of lines that a block may be placed in.
//
// LRUQueue lists way indices from least to most recently used. It only ever
// orders the lines of its own set.
type Set struct {
	Lines    []Line
	LRUQueue []int
}

// TagArray is the state of the whole cache: one Set per index.
type TagArray struct {
	NumSets int
	NumWays int
	Sets    []Set
}

// NewTagArray creates a tag array with every line empty.
func NewTagArray(numSets, numWays int) *TagArray {
	t := &TagArray{
		NumSets: numSets,
		NumWays: numWays,
	}

	t.Reset()

	return t
}

// Reset invalidates every line and restores the initial LRU order.
func (t *TagArray) Reset() {
	t.Sets = make([]Set, t.NumSets)
	for i := range t.Sets {
		t.Sets[i].Lines = make([]Line, t.NumWays)
		t.Sets[i].LRUQueue = make([]int, t.NumWays)
		for w := range t.Sets[i].LRUQueue {
			t.Sets[i].LRUQueue[w] = w
		}
	}
}

// Lookup returns the way of set index holding tag.
func (t *TagArray) Lookup(index int, tag uint64) (int, bool) {
	for way, line := range t.Sets[index].Lines {
		if line.IsValid && line.Tag == tag {
			return way, true
		}
	}

	return 0, false
}

// Visit marks a way as the most recently used line of its set.
func (t *TagArray) Visit(index, way int) {
	set := &t.Sets[index]
	queue := set.LRUQueue[:0]

	for _, w := range set.LRUQueue {
		if w != way {
			queue = append(queue, w)
		}
	}

	set.LRUQueue = append(queue, way)
}

// Fill stores tag in the given line and returns what the line held before.
func (t *TagArray) Fill(index, way int, tag uint64) Line {
	line := &t.Sets[index].Lines[way]
	previous := *line

	line.Tag = tag
	line.IsValid = true

	return previous
}

// Occupancy counts the valid lines of a set.
func (t *TagArray) Occupancy(index int) int {
	n := 0
	for _, line := range t.Sets[index].Lines {
		if line.IsValid {
			n++
		}
	}

	return n
}

// Snapshot copies the current tag contents.
func (t *TagArray) Snapshot() Snapshot {
	s := Snapshot{
		Associativity: t.NumWays,
		Sets:          make([][]Line, t.NumSets),
	}

	for i, set := range t.Sets {
		s.Sets[i] = append([]Line(nil), set.Lines...)
	}

	return s
}
