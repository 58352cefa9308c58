package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachemap/cache"
	"github.com/sarchlab/cachemap/config"
	"github.com/sarchlab/cachemap/sim"
)

// Environment variables that provide geometry defaults.
const (
	envCacheSize  = "CACHESIM_CACHE_SIZE"
	envMemorySize = "CACHESIM_MEMORY_SIZE"
	envBlockSize  = "CACHESIM_BLOCK_SIZE"
	envMapping    = "CACHESIM_MAPPING"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	envFile    string
	configPath string
	cacheSize  int
	memorySize int
	blockSize  int
	mapping    string
	engine     string
	verbose    bool

	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{out: out, errOut: errOut}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "cachesim",
		Short: "Replay memory references against a cache mapping model.",
		Long: `cachesim replays a sequence of memory references against a direct-mapped ` +
			`or 2-way set-associative cache and reports hits, misses, evictions, ` +
			`the tag/index/offset bit layout, and the cache contents before and after.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(opts.errOut,
				&slog.HandlerOptions{Level: level}))

			return loadEnvFile(opts.envFile)
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "File with CACHESIM_* defaults")
	flags.StringVar(&opts.configPath, "config", "", "Path to cache configuration JSON file")
	flags.IntVar(&opts.cacheSize, "cache-size", defaults.CacheSize, "Cache size in bytes")
	flags.IntVar(&opts.memorySize, "memory-size", defaults.MemorySize, "Memory size in bytes")
	flags.IntVar(&opts.blockSize, "block-size", defaults.BlockSize, "Block size in bytes")
	flags.StringVar(&opts.mapping, "mapping", "direct",
		`Cache mapping: "direct" or "2way"`)
	flags.StringVar(&opts.engine, "engine", "native",
		`Cache model implementation: "native" or "akita"`)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every access")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newDecodeCmd(opts),
		newBenchCmd(opts),
	)

	return rootCmd
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// resolveConfig layers the environment, the config file, and explicitly set
// flags over the defaults.
func (o *globalOptions) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if err := applyEnv(cfg); err != nil {
		return config.Config{}, err
	}

	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("cache-size") {
		cfg.CacheSize = o.cacheSize
	}
	if flags.Changed("memory-size") {
		cfg.MemorySize = o.memorySize
	}
	if flags.Changed("block-size") {
		cfg.BlockSize = o.blockSize
	}
	if flags.Changed("mapping") {
		assoc, err := config.ParseMapping(o.mapping)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Associativity = assoc
	}

	return *cfg, nil
}

func applyEnv(cfg *config.Config) error {
	ints := []struct {
		name  string
		field *int
	}{
		{envCacheSize, &cfg.CacheSize},
		{envMemorySize, &cfg.MemorySize},
		{envBlockSize, &cfg.BlockSize},
	}

	for _, v := range ints {
		s, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", v.name, err)
		}
		*v.field = n
	}

	if s, ok := os.LookupEnv(envMapping); ok {
		assoc, err := config.ParseMapping(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envMapping, err)
		}
		cfg.Associativity = assoc
	}

	return nil
}

func (o *globalOptions) runner() (*sim.Runner, error) {
	var builder sim.ModelBuilder

	switch o.engine {
	case "native":
		builder = cache.NewModel
	case "akita":
		builder = sim.DirectoryModelBuilder
	default:
		return nil, fmt.Errorf("unknown engine %q", o.engine)
	}

	return sim.NewRunner(
		sim.WithModelBuilder(builder),
		sim.WithLogger(o.logger),
	), nil
}
