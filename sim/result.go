package sim

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/cache"
	"github.com/sarchlab/cachemap/config"
)

// TraceEntry records the outcome of one reference.
type TraceEntry struct {
	Address    uint64
	Binary     string
	Fields     address.Fields
	Verdict    cache.Verdict
	Evicted    bool
	EvictedTag uint64
}

// String renders the entry as "binary - Verdict".
func (e TraceEntry) String() string {
	return fmt.Sprintf("%s - %s", e.Binary, e.Verdict)
}

// Result is the outcome of a simulation run. It is not modified after Run
// returns.
type Result struct {
	Config config.Config
	Layout address.Layout

	Hits      int
	Misses    int
	Evictions int

	Trace []TraceEntry

	Before cache.Snapshot
	After  cache.Snapshot
}

// Accesses returns the number of references replayed.
func (r *Result) Accesses() int {
	return r.Hits + r.Misses
}

// HitRate returns the fraction of references that hit.
func (r *Result) HitRate() float64 {
	if r.Accesses() == 0 {
		return 0
	}

	return float64(r.Hits) / float64(r.Accesses())
}

// Verdicts lists the verdict of every reference in order.
func (r *Result) Verdicts() []cache.Verdict {
	verdicts := make([]cache.Verdict, len(r.Trace))
	for i, e := range r.Trace {
		verdicts[i] = e.Verdict
	}

	return verdicts
}

// TraceLines renders the trace one reference per line.
func (r *Result) TraceLines() []string {
	lines := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		lines[i] = e.String()
	}

	return lines
}

// Summary renders the hit, miss, and eviction counters.
func (r *Result) Summary() string {
	return fmt.Sprintf("Hits: %d\nMisses: %d\nEvictions: %d",
		r.Hits, r.Misses, r.Evictions)
}

// Report renders the whole result as the front end lays it out.
func (r *Result) Report() string {
	var b strings.Builder

	b.WriteString(strings.Join(r.TraceLines(), "\n"))
	b.WriteString("\n\n")
	b.WriteString(r.Layout.String())
	b.WriteString("\n\n")
	b.WriteString(r.Summary())
	b.WriteString("\n\n")
	b.WriteString(r.Before.Text("Before Cache Fill:"))
	b.WriteString("\n\n")
	b.WriteString(r.After.Text("After Cache Fill:"))
	b.WriteString("\n")

	return b.String()
}
