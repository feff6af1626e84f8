package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/topsis/internal/client"
	"github.com/tensorplex-labs/topsis/internal/dataset"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

func remoteCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "remote " + paramsUsage,
		Short: "Score a table file on a running server",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}

			table, err := dataset.Load(args[0])
			if err != nil {
				if topsis.KindOf(err) == topsis.KindInternal {
					return topsis.Internal(err)
				}
				return err
			}

			weights, err := topsis.ParseWeights(args[1])
			if err != nil {
				return err
			}

			c, err := client.NewClient(&cfg.ClientEnvConfig)
			if err != nil {
				return err
			}

			result, err := c.Evaluate(cmd.Context(), table, weights, topsis.ParseImpacts(args[2]))
			if err != nil {
				return err
			}

			if err := dataset.Save(args[3], result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Result saved to %s\n", args[3])
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "server base URL (overrides TOPSIS_SERVER_URL)")
	return cmd
}
