package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	"github.com/spf13/cobra"
)

type athleteFile struct {
	Sport              string  `json:"sport"`
	State              string  `json:"state"`
	InstagramFollowers int64   `json:"instagram_followers"`
	TikTokFollowers    int64   `json:"tiktok_followers"`
	TwitterFollowers   int64   `json:"twitter_followers"`
	EngagementRate     float64 `json:"engagement_rate"`
	OpenToDeals        bool    `json:"open_to_deals"`
	FMVCents           int64   `json:"fmv_cents"`
}

type campaignFile struct {
	Sports         []string `json:"sports"`
	TargetStates   []string `json:"target_states"`
	MinFollowers   int64    `json:"min_followers"`
	MinEngagement  float64  `json:"min_engagement"`
	BudgetMinCents int64    `json:"budget_min_cents"`
	BudgetMaxCents int64    `json:"budget_max_cents"`
}

type matchReport struct {
	Score     int                `json:"score"`
	Breakdown matching.Breakdown `json:"breakdown"`
}

func newMatchCmd() *cobra.Command {
	var weightsPath, athletePath, campaignPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score one athlete against one campaign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weights, err := matching.LoadWeights(weightsPath)
			if err != nil {
				return err
			}

			var af athleteFile
			if err := readJSONFile(athletePath, &af); err != nil {
				return fmt.Errorf("read athlete: %w", err)
			}
			var cf campaignFile
			if err := readJSONFile(campaignPath, &cf); err != nil {
				return fmt.Errorf("read campaign: %w", err)
			}

			profile := athlete.Profile{
				Sport:              athlete.NormalizeSport(af.Sport),
				State:              af.State,
				InstagramFollowers: af.InstagramFollowers,
				TikTokFollowers:    af.TikTokFollowers,
				TwitterFollowers:   af.TwitterFollowers,
				EngagementRate:     af.EngagementRate,
				OpenToDeals:        af.OpenToDeals,
				FMVCents:           af.FMVCents,
			}
			if profile.FMVCents == 0 {
				profile.FMVCents = profile.ComputeFMV()
			}
			c := campaign.Campaign{
				Sports:         cf.Sports,
				TargetStates:   cf.TargetStates,
				MinFollowers:   cf.MinFollowers,
				MinEngagement:  cf.MinEngagement,
				BudgetMinCents: cf.BudgetMinCents,
				BudgetMaxCents: cf.BudgetMaxCents,
			}

			score, breakdown := matching.Score(profile, c, weights)
			raw, err := sonic.ConfigStd.MarshalIndent(matchReport{Score: score, Breakdown: breakdown}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
	cmd.Flags().StringVar(&weightsPath, "weights", "", "match weights YAML (defaults when empty)")
	cmd.Flags().StringVar(&athletePath, "athlete", "", "athlete JSON file")
	cmd.Flags().StringVar(&campaignPath, "campaign", "", "campaign JSON file")
	_ = cmd.MarkFlagRequired("athlete")
	_ = cmd.MarkFlagRequired("campaign")
	return cmd
}

func readJSONFile(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, dst)
}
