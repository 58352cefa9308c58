package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/sim"
	"github.com/sarchlab/cachemap/trace"
)

func newDecodeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [address ...]",
		Short: "Print the bit layout and split addresses into tag, index, and offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}

			layout, err := address.NewLayout(cfg)
			if err != nil {
				return err
			}

			refs, err := trace.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintf(opts.out, "%s (%d sets)\n", cfg.MappingName(), layout.NumSets)
			fmt.Fprintln(opts.out, layout.String())

			for i, ref := range refs {
				if ref < 0 {
					return &sim.ReferenceError{Position: i, Address: ref, Err: sim.ErrNegativeAddress}
				}
				addr := uint64(ref)
				if !layout.InRange(addr) {
					return &sim.ReferenceError{Position: i, Address: ref, Err: sim.ErrAddressOutOfRange}
				}

				fmt.Fprintf(opts.out, "%s  %s\n", address.Binary(addr), layout.Decode(addr))
			}

			return nil
		},
	}
}
