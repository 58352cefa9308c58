package workloads

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/cachemap/sim"
)

// WorkloadResult holds the outcome of a single workload run.
type WorkloadResult struct {
	// Name identifies the workload
	Name string `json:"name"`

	// Description explains what the workload exercises
	Description string `json:"description"`

	// Geometry
	Mapping       string `json:"mapping"`
	CacheSize     int    `json:"cache_size"`
	MemorySize    int    `json:"memory_size"`
	BlockSize     int    `json:"block_size"`
	Associativity int    `json:"associativity"`

	// Bit layout
	TagBits    int `json:"tag_bits"`
	IndexBits  int `json:"index_bits"`
	OffsetBits int `json:"offset_bits"`

	// Counters
	References int     `json:"references"`
	Hits       int     `json:"hits"`
	Misses     int     `json:"misses"`
	Evictions  int     `json:"evictions"`
	HitRate    float64 `json:"hit_rate"`

	// Expected is the known outcome, if the workload declares one
	Expected *Expectation `json:"expected,omitempty"`

	// Matches is false when the counters differ from Expected
	Matches bool `json:"matches"`

	// Error is set when the run was rejected
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the workload harness.
type HarnessConfig struct {
	// Runner replays the workloads (default: sim.NewRunner())
	Runner *sim.Runner

	// Engine names the cache model implementation in reports
	Engine string

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Runner: sim.NewRunner(),
		Engine: "native",
		Output: os.Stdout,
	}
}

// Harness runs workloads and reports results.
type Harness struct {
	config    HarnessConfig
	workloads []Workload
}

// NewHarness creates a new workload harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Runner == nil {
		config.Runner = sim.NewRunner()
	}
	if config.Engine == "" {
		config.Engine = "native"
	}
	return &Harness{
		config:    config,
		workloads: []Workload{},
	}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll executes all workloads and returns results.
func (h *Harness) RunAll() []WorkloadResult {
	results := make([]WorkloadResult, 0, len(h.workloads))

	for _, w := range h.workloads {
		results = append(results, h.runWorkload(w))
	}

	return results
}

// runWorkload executes a single workload.
func (h *Harness) runWorkload(w Workload) WorkloadResult {
	result := WorkloadResult{
		Name:          w.Name,
		Description:   w.Description,
		Mapping:       w.Config.MappingName(),
		CacheSize:     w.Config.CacheSize,
		MemorySize:    w.Config.MemorySize,
		BlockSize:     w.Config.BlockSize,
		Associativity: w.Config.Associativity,
		References:    len(w.References),
		Expected:      w.Expected,
	}

	start := time.Now()
	run, err := h.config.Runner.Run(w.Config, w.References)
	result.WallTime = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.TagBits = run.Layout.TagBits
	result.IndexBits = run.Layout.IndexBits
	result.OffsetBits = run.Layout.OffsetBits
	result.Hits = run.Hits
	result.Misses = run.Misses
	result.Evictions = run.Evictions
	result.HitRate = run.HitRate()

	result.Matches = w.Expected == nil ||
		(*w.Expected == Expectation{Hits: run.Hits, Misses: run.Misses, Evictions: run.Evictions})

	return result
}

// PrintResults outputs workload results in a human-readable format.
func (h *Harness) PrintResults(results []WorkloadResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Cache Mapping Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Workload: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Mapping: %s (%dB cache, %dB memory, %dB blocks)\n",
			r.Mapping, r.CacheSize, r.MemorySize, r.BlockSize)

		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
			_, _ = fmt.Fprintln(h.config.Output, "")
			continue
		}

		_, _ = fmt.Fprintln(h.config.Output, "  --- Layout ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Tag bits:    %d\n", r.TagBits)
		_, _ = fmt.Fprintf(h.config.Output, "  Index bits:  %d\n", r.IndexBits)
		_, _ = fmt.Fprintf(h.config.Output, "  Offset bits: %d\n", r.OffsetBits)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Counters ---")
		_, _ = fmt.Fprintf(h.config.Output, "  References: %d\n", r.References)
		_, _ = fmt.Fprintf(h.config.Output, "  Hits:       %d\n", r.Hits)
		_, _ = fmt.Fprintf(h.config.Output, "  Misses:     %d\n", r.Misses)
		_, _ = fmt.Fprintf(h.config.Output, "  Evictions:  %d\n", r.Evictions)
		_, _ = fmt.Fprintf(h.config.Output, "  Hit rate:   %.1f%%\n", 100*r.HitRate)

		if r.Expected != nil {
			status := "ok"
			if !r.Matches {
				status = fmt.Sprintf("MISMATCH (expected %d/%d/%d)",
					r.Expected.Hits, r.Expected.Misses, r.Expected.Evictions)
			}
			_, _ = fmt.Fprintf(h.config.Output, "  Expected:   %s\n", status)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs workload results in CSV format.
func (h *Harness) PrintCSV(results []WorkloadResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,associativity,cache_size,memory_size,block_size,tag_bits,index_bits,offset_bits,references,hits,misses,evictions,hit_rate,matches")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%.3f,%t\n",
			r.Name,
			r.Associativity,
			r.CacheSize,
			r.MemorySize,
			r.BlockSize,
			r.TagBits,
			r.IndexBits,
			r.OffsetBits,
			r.References,
			r.Hits,
			r.Misses,
			r.Evictions,
			r.HitRate,
			r.Matches,
		)
	}
}

// Report is the JSON document PrintJSON writes.
type Report struct {
	Metadata ReportMetadata   `json:"metadata"`
	Results  []WorkloadResult `json:"results"`
	Summary  ReportSummary    `json:"summary"`
}

// ReportMetadata identifies a harness run.
type ReportMetadata struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Engine    string `json:"engine"`
}

// ReportSummary aggregates all results.
type ReportSummary struct {
	TotalWorkloads  int           `json:"total_workloads"`
	TotalReferences int           `json:"total_references"`
	TotalHits       int           `json:"total_hits"`
	TotalMisses     int           `json:"total_misses"`
	TotalEvictions  int           `json:"total_evictions"`
	Mismatches      int           `json:"mismatches"`
	Errors          int           `json:"errors"`
	TotalWallTime   time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []WorkloadResult) ReportSummary {
	s := ReportSummary{TotalWorkloads: len(results)}
	for _, r := range results {
		s.TotalReferences += r.References
		s.TotalHits += r.Hits
		s.TotalMisses += r.Misses
		s.TotalEvictions += r.Evictions
		s.TotalWallTime += r.WallTime
		if r.Error != "" {
			s.Errors++
		} else if !r.Matches {
			s.Mismatches++
		}
	}

	return s
}

// PrintJSON outputs workload results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []WorkloadResult) error {
	report := Report{
		Metadata: ReportMetadata{
			RunID:     xid.New().String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Engine:    h.config.Engine,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
