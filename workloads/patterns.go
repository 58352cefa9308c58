// Package workloads provides named reference patterns and a harness that
// replays them through the simulator.
package workloads

import "github.com/sarchlab/cachemap/config"

// Expectation is the known outcome of a workload.
type Expectation struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
}

// Workload defines a single reference pattern and the cache it targets.
type Workload struct {
	// Name identifies the workload
	Name string

	// Description explains what the workload exercises
	Description string

	// Config is the cache geometry to replay against
	Config config.Config

	// References is the address sequence
	References []int64

	// Expected is the outcome to validate against, if known
	Expected *Expectation
}

// GetWorkloads returns the standard set of workloads.
func GetWorkloads() []Workload {
	return []Workload{
		directMappedConflict(),
		twoWayLRU(),
		hitConfirmation(),
		sequentialSweep(),
		pingPongDirect(),
		pingPongTwoWay(),
		loopFits(),
		loopExceedsSet(),
	}
}

// GetScenarioWorkloads returns the three reference scenarios used to check
// the mapping algorithms by hand.
func GetScenarioWorkloads() []Workload {
	return []Workload{
		directMappedConflict(),
		twoWayLRU(),
		hitConfirmation(),
	}
}

// Sequential returns start, start+step, ... up to but excluding end.
func Sequential(start, end, step int64) []int64 {
	refs := []int64{}
	for a := start; a < end; a += step {
		refs = append(refs, a)
	}

	return refs
}

// Repeat concatenates n copies of refs.
func Repeat(refs []int64, n int) []int64 {
	out := make([]int64, 0, len(refs)*n)
	for i := 0; i < n; i++ {
		out = append(out, refs...)
	}

	return out
}

func geometry(assoc int) config.Config {
	return config.Config{
		CacheSize:     16,
		MemorySize:    256,
		BlockSize:     4,
		Associativity: assoc,
	}
}

// 1. Direct-mapped conflict - fifth block wraps onto line 0
func directMappedConflict() Workload {
	return Workload{
		Name:        "direct_mapped_conflict",
		Description: "5 consecutive blocks into 4 lines - one conflict eviction",
		Config:      geometry(config.DirectMapped),
		References:  []int64{0, 4, 8, 12, 16},
		Expected:    &Expectation{Hits: 0, Misses: 5, Evictions: 1},
	}
}

// 2. 2-way LRU - three tags compete for set 0
func twoWayLRU() Workload {
	return Workload{
		Name:        "two_way_lru",
		Description: "3 tags in one 2-way set - evicts the least recently used",
		Config:      geometry(config.TwoWaySetAssociative),
		References:  []int64{0, 16, 32},
		Expected:    &Expectation{Hits: 0, Misses: 3, Evictions: 1},
	}
}

// 3. Hit confirmation - cold then warm
func hitConfirmation() Workload {
	return Workload{
		Name:        "hit_confirmation",
		Description: "Same address twice - cold miss then hit",
		Config:      geometry(config.TwoWaySetAssociative),
		References:  []int64{0, 0},
		Expected:    &Expectation{Hits: 1, Misses: 1, Evictions: 0},
	}
}

// 4. Sequential sweep - spatial locality within each block
func sequentialSweep() Workload {
	return Workload{
		Name:        "sequential_sweep",
		Description: "Every byte of memory in order - one miss per block",
		Config:      geometry(config.DirectMapped),
		References:  Sequential(0, 256, 1),
		Expected:    &Expectation{Hits: 192, Misses: 64, Evictions: 60},
	}
}

// 5. Ping-pong, direct mapped - two blocks fight over one line
func pingPongDirect() Workload {
	return Workload{
		Name:        "ping_pong_direct",
		Description: "Alternating blocks 16B apart - every access conflicts",
		Config:      geometry(config.DirectMapped),
		References:  Repeat([]int64{0, 16}, 4),
		Expected:    &Expectation{Hits: 0, Misses: 8, Evictions: 7},
	}
}

// 6. Ping-pong, 2-way - the second way absorbs the conflict
func pingPongTwoWay() Workload {
	return Workload{
		Name:        "ping_pong_two_way",
		Description: "Alternating blocks 16B apart - both fit in one set",
		Config:      geometry(config.TwoWaySetAssociative),
		References:  Repeat([]int64{0, 16}, 4),
		Expected:    &Expectation{Hits: 6, Misses: 2, Evictions: 0},
	}
}

// 7. Loop that fits - working set equals capacity
func loopFits() Workload {
	return Workload{
		Name:        "loop_fits",
		Description: "4-block loop three times - only cold misses",
		Config:      geometry(config.DirectMapped),
		References:  Repeat([]int64{0, 4, 8, 12}, 3),
		Expected:    &Expectation{Hits: 8, Misses: 4, Evictions: 0},
	}
}

// 8. Loop exceeding a set - LRU's worst case
func loopExceedsSet() Workload {
	return Workload{
		Name:        "loop_exceeds_set",
		Description: "3-tag loop on one 2-way set - LRU misses every time",
		Config:      geometry(config.TwoWaySetAssociative),
		References:  Repeat([]int64{0, 16, 32}, 3),
		Expected:    &Expectation{Hits: 0, Misses: 9, Evictions: 7},
	}
}
