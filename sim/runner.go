// Package sim replays a memory reference sequence against a cache model and
// collects the counters, trace, and snapshots of the run.
package sim

import (
	"log/slog"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/cache"
	"github.com/sarchlab/cachemap/config"
)

// ModelBuilder creates the empty cache model a run replays against.
type ModelBuilder func(cfg config.Config) (cache.Model, error)

// DirectoryModelBuilder builds models on Akita's cache directory.
func DirectoryModelBuilder(cfg config.Config) (cache.Model, error) {
	return cache.NewDirectoryModel(cfg)
}

// Runner runs simulations. It keeps no per-run state, so one Runner may be
// shared between goroutines.
type Runner struct {
	buildModel ModelBuilder
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithModelBuilder replaces the default cache model constructor.
func WithModelBuilder(b ModelBuilder) Option {
	return func(r *Runner) {
		r.buildModel = b
	}
}

// WithLogger makes the runner emit debug records for each run. A nil logger
// keeps the runner silent.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger == nil {
			return
		}
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		buildModel: cache.NewModel,
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run replays refs against a fresh cache built from cfg using the default
// models.
func Run(cfg config.Config, refs []int64) (*Result, error) {
	return NewRunner().Run(cfg, refs)
}

// Run validates the configuration and every reference, then replays the
// references in order. It returns either a complete Result or an error;
// partial results are never exposed.
func (r *Runner) Run(cfg config.Config, refs []int64) (*Result, error) {
	layout, err := address.NewLayout(cfg)
	if err != nil {
		return nil, err
	}

	addrs, err := checkReferences(layout, refs)
	if err != nil {
		return nil, err
	}

	model, err := r.buildModel(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Config: cfg,
		Layout: layout,
		Trace:  make([]TraceEntry, 0, len(addrs)),
		Before: model.Snapshot(),
	}

	for _, addr := range addrs {
		access := model.Access(addr)

		switch access.Verdict {
		case cache.Hit:
			result.Hits++
		default:
			result.Misses++
		}
		if access.Evicted {
			result.Evictions++
		}

		result.Trace = append(result.Trace, TraceEntry{
			Address:    addr,
			Binary:     address.Binary(addr),
			Fields:     access.Fields,
			Verdict:    access.Verdict,
			Evicted:    access.Evicted,
			EvictedTag: access.EvictedTag,
		})

		r.logger.Debug("access",
			"address", addr,
			"tag", access.Fields.Tag,
			"index", access.Fields.Index,
			"offset", access.Fields.Offset,
			"verdict", access.Verdict.String(),
			"evicted", access.Evicted)
	}

	result.After = model.Snapshot()

	r.logger.Debug("run complete",
		"mapping", cfg.MappingName(),
		"references", len(addrs),
		"hits", result.Hits,
		"misses", result.Misses,
		"evictions", result.Evictions)

	return result, nil
}

func checkReferences(layout address.Layout, refs []int64) ([]uint64, error) {
	if len(refs) == 0 {
		return nil, &ReferenceError{Position: -1, Err: ErrNoReferences}
	}

	addrs := make([]uint64, len(refs))
	for i, ref := range refs {
		if ref < 0 {
			return nil, &ReferenceError{Position: i, Address: ref, Err: ErrNegativeAddress}
		}
		if !layout.InRange(uint64(ref)) {
			return nil, &ReferenceError{Position: i, Address: ref, Err: ErrAddressOutOfRange}
		}
		addrs[i] = uint64(ref)
	}

	return addrs, nil
}
