package main

import (
	"fmt"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/spf13/cobra"
)

func newFMVCmd() *cobra.Command {
	var (
		sport      string
		followers  int64
		engagement float64
	)

	cmd := &cobra.Command{
		Use:   "fmv",
		Short: "Estimate an athlete's fair market value per post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if followers < 0 {
				return fmt.Errorf("--followers must be >= 0")
			}
			if engagement < 0 || engagement > 1 {
				return fmt.Errorf("--engagement must be between 0 and 1")
			}
			s := athlete.NormalizeSport(sport)
			cents := athlete.ComputeFMV(followers, engagement, s)
			fmt.Fprintf(cmd.OutOrStdout(), "sport=%s followers=%d engagement=%.4f fmv=$%d.%02d\n",
				s, followers, engagement, cents/100, cents%100)
			return nil
		},
	}
	cmd.Flags().StringVar(&sport, "sport", "", "sport, e.g. football")
	cmd.Flags().Int64Var(&followers, "followers", 0, "total followers across platforms")
	cmd.Flags().Float64Var(&engagement, "engagement", 0, "engagement rate between 0 and 1")
	_ = cmd.MarkFlagRequired("sport")
	return cmd
}
