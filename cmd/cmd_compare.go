package main

import (
	"fmt"

	"github.com/okian/numerox/internal/adapters/http/api"
	"github.com/spf13/cobra"
)

func newCorrelationCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "correlation [model]",
		Short: "Correlation of every other model, highest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			reports, err := svc.Correlation(cmd.Context(), name)
			if err != nil {
				return err
			}
			return renderCorrelation(cmd.OutOrStdout(), reports)
		},
	}
}

func newOriginalityCmd(root *rootOptions) *cobra.Command {
	var corr, ks float64
	cmd := &cobra.Command{
		Use:   "originality <submitted>...",
		Short: "Check unsubmitted models against the submitted ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("corr-threshold") {
				root.cfg.CorrThreshold = corr
			}
			if cmd.Flags().Changed("ks-threshold") {
				root.cfg.KSThreshold = ks
			}
			if err := root.cfg.Validate(); err != nil {
				return err
			}
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()
			var submitted []string
			for _, a := range args {
				submitted = append(submitted, api.SplitList(a)...)
			}
			if len(submitted) == 0 {
				return fmt.Errorf("originality: no submitted model named")
			}
			rows, err := svc.Originality(cmd.Context(), submitted)
			if err != nil {
				return err
			}
			return renderOriginality(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().Float64Var(&corr, "corr-threshold", 0, "max correlation with a submitted model (default from NUMEROX_CORR_THRESHOLD)")
	cmd.Flags().Float64Var(&ks, "ks-threshold", 0, "min KS distance to a submitted model (default from NUMEROX_KS_THRESHOLD)")
	return cmd
}
