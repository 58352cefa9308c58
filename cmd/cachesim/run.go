package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachemap/config"
	"github.com/sarchlab/cachemap/sim"
	"github.com/sarchlab/cachemap/trace"
)

type runOptions struct {
	*globalOptions

	refs     string
	refsFile string
	format   string
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a reference sequence",
		Example: `  cachesim run --refs 0,4,8,12,16
  cachesim run --mapping 2way --refs 0,16,32
  cachesim run --config cache.json --refs-file refs.txt --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.refs, "refs", "", "Comma separated memory references")
	cmd.Flags().StringVar(&opts.refsFile, "refs-file", "", "File with memory references")
	cmd.Flags().StringVar(&opts.format, "format", "text", `Output format: "text" or "json"`)

	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("unknown format %q", o.format)
	}

	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return err
	}

	refs, err := o.references()
	if err != nil {
		return err
	}

	runner, err := o.runner()
	if err != nil {
		return err
	}

	runID := xid.New().String()
	o.logger.Debug("starting simulation",
		"run_id", runID,
		"mapping", cfg.MappingName(),
		"cache_size", cfg.CacheSize,
		"memory_size", cfg.MemorySize,
		"block_size", cfg.BlockSize,
		"engine", o.engine)

	result, err := runner.Run(cfg, refs)
	if err != nil {
		return err
	}

	o.logger.Info("simulation finished",
		"run_id", runID,
		"hits", result.Hits,
		"misses", result.Misses,
		"evictions", result.Evictions)

	if o.format == "json" {
		return writeJSON(o, newRunReport(runID, o.engine, result))
	}

	_, err = fmt.Fprint(o.out, result.Report())
	return err
}

func (o *runOptions) references() ([]int64, error) {
	switch {
	case o.refs != "" && o.refsFile != "":
		return nil, errors.New("use either --refs or --refs-file, not both")
	case o.refsFile != "":
		return trace.Load(o.refsFile)
	default:
		return trace.Parse(o.refs)
	}
}

type traceRecord struct {
	Address uint64 `json:"address"`
	Binary  string `json:"binary"`
	Tag     uint64 `json:"tag"`
	Index   int    `json:"index"`
	Offset  uint64 `json:"offset"`
	Verdict string `json:"verdict"`
	Evicted bool   `json:"evicted"`
}

type runReport struct {
	RunID      string        `json:"run_id"`
	Engine     string        `json:"engine"`
	Mapping    string        `json:"mapping"`
	Config     config.Config `json:"config"`
	TagBits    int           `json:"tag_bits"`
	IndexBits  int           `json:"index_bits"`
	OffsetBits int           `json:"offset_bits"`
	Hits       int           `json:"hits"`
	Misses     int           `json:"misses"`
	Evictions  int           `json:"evictions"`
	Trace      []traceRecord `json:"trace"`
	Before     []string      `json:"before"`
	After      []string      `json:"after"`
}

func newRunReport(runID, engine string, r *sim.Result) runReport {
	report := runReport{
		RunID:      runID,
		Engine:     engine,
		Mapping:    r.Config.MappingName(),
		Config:     r.Config,
		TagBits:    r.Layout.TagBits,
		IndexBits:  r.Layout.IndexBits,
		OffsetBits: r.Layout.OffsetBits,
		Hits:       r.Hits,
		Misses:     r.Misses,
		Evictions:  r.Evictions,
		Trace:      make([]traceRecord, len(r.Trace)),
		Before:     r.Before.Lines(),
		After:      r.After.Lines(),
	}

	for i, e := range r.Trace {
		report.Trace[i] = traceRecord{
			Address: e.Address,
			Binary:  e.Binary,
			Tag:     e.Fields.Tag,
			Index:   e.Fields.Index,
			Offset:  e.Fields.Offset,
			Verdict: e.Verdict.String(),
			Evicted: e.Evicted,
		}
	}

	return report
}

func writeJSON(o *runOptions, v any) error {
	encoder := json.NewEncoder(o.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
