package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/topsis/internal/dataset"
	"github.com/tensorplex-labs/topsis/internal/evaluator"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

const paramsUsage = `<input.csv> <weights> <impacts> <output>

  weights  comma separated positive numbers, e.g. "1,1,1,2"
  impacts  comma separated directions, e.g. "+,+,-,+" (also up/down, maximize/minimize)
  output   .csv, .csv.gz, .csv.zst or .json`

func scoreCmd() *cobra.Command {
	var plot bool

	cmd := &cobra.Command{
		Use:   "score " + paramsUsage,
		Short: "Score a table file and write the ranked result",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			scorer := topsis.NewScorer(
				topsis.WithDegenerateScore(cfg.DegenerateScore),
				topsis.WithTieTolerance(cfg.TieTolerance),
			)

			result, err := evaluator.New(scorer).EvaluateFileArgs(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			if err := dataset.Save(args[3], result); err != nil {
				return err
			}

			if plot {
				topsis.PlotScoresTerminal(cmd.OutOrStdout(), result, "TOPSIS ranking")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Result saved to %s\n", args[3])
			return nil
		},
	}

	cmd.Flags().BoolVar(&plot, "plot", false, "print a bar chart of the ranking")
	return cmd
}
