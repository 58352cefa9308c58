package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachemap/workloads"
)

func newBenchCmd(opts *globalOptions) *cobra.Command {
	var csvOutput, jsonOutput bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Replay the built-in workloads and check their known outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := opts.runner()
			if err != nil {
				return err
			}

			harness := workloads.NewHarness(workloads.HarnessConfig{
				Runner: runner,
				Engine: opts.engine,
				Output: opts.out,
			})
			harness.AddWorkloads(workloads.GetWorkloads())

			results := harness.RunAll()

			switch {
			case jsonOutput:
				if err := harness.PrintJSON(results); err != nil {
					return err
				}
			case csvOutput:
				harness.PrintCSV(results)
			default:
				harness.PrintResults(results)
			}

			summary := workloads.Summarize(results)
			if summary.Mismatches > 0 || summary.Errors > 0 {
				return fmt.Errorf("%d of %d workloads did not match their expected outcome",
					summary.Mismatches+summary.Errors, summary.TotalWorkloads)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output results in CSV format")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	cmd.MarkFlagsMutuallyExclusive("csv", "json")

	return cmd
}
