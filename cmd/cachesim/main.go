// Command cachesim replays memory references against a direct-mapped or
// 2-way set-associative cache and reports hits, misses, and evictions.
//
// Usage:
//
//	cachesim run --cache-size 16 --memory-size 256 --block-size 4 \
//	    --mapping direct --refs 0,4,8,12,16
//	cachesim decode --mapping 2way 0 16 32
//	cachesim bench [--csv | --json]
//
// Geometry defaults come from a .env file or CACHESIM_* environment
// variables, then from --config, then from explicit flags.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
