package main

import (
	"github.com/spf13/cobra"
)

func newPerformanceCmd(root *rootOptions) *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Leaderboard of every model, averaged across eras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			report, err := svc.Performance(cmd.Context(), sortBy)
			if err != nil {
				return err
			}
			return renderPerformance(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "logloss, auc, acc, ystd, sharpe or consis (default from NUMEROX_SORT_BY)")
	return cmd
}

func newSummaryCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <model>",
		Short: "Spread of one model's per-era metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			report, err := svc.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderSummary(cmd.OutOrStdout(), report)
		},
	}
}

func newEraCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "era <model>",
		Short: "Per-era metrics of one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			rows, err := svc.PerEra(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderEras(cmd.OutOrStdout(), rows)
		},
	}
}

func newDominanceCmd(root *rootOptions) *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "dominance",
		Short: "Fraction of rival models each model beats, era by era",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			rows, err := svc.Dominance(cmd.Context(), sortBy)
			if err != nil {
				return err
			}
			return renderDominance(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort-by", "logloss", "logloss, auc or acc")
	return cmd
}
