package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var out string
	var decimals int
	cmd := &cobra.Command{
		Use:   "export <model>",
		Short: "Write one model as id,probability CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if cmd.Flags().Changed("decimals") {
				root.cfg.CSVDecimals = decimals
			}
			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			w := cmd.OutOrStdout()
			if out != "" {
				f, ferr := os.Create(out)
				if ferr != nil {
					return fmt.Errorf("export: %w", ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return svc.Export(cmd.Context(), w, args[0])
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&decimals, "decimals", 6, "decimals per probability (default from NUMEROX_CSV_DECIMALS)")
	return cmd
}
