package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster CSV utilities",
	}
	cmd.AddCommand(newRosterValidateCmd())
	return cmd
}

type rosterReport struct {
	TotalRows     int          `json:"total_rows"`
	ValidRows     int          `json:"valid_rows"`
	InvalidRows   int          `json:"invalid_rows"`
	WarningsCount int          `json:"warnings_count"`
	Rows          []roster.Row `json:"rows"`
}

func newRosterValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Validate a roster CSV without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()

			rows, err := roster.Parse(f)
			if err != nil {
				return err
			}
			roster.Check(rows, roster.Options{Now: time.Now()})

			imp := roster.Import{Rows: rows}
			imp.Summarize()

			out := cmd.OutOrStdout()
			if asJSON {
				raw, err := sonic.ConfigStd.MarshalIndent(rosterReport{
					TotalRows:     imp.TotalRows,
					ValidRows:     imp.ValidRows,
					InvalidRows:   imp.InvalidRows,
					WarningsCount: imp.WarningsCount,
					Rows:          imp.Rows,
				}, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(raw))
				return err
			}

			fmt.Fprintf(out, "rows: %d  valid: %d  invalid: %d  warnings: %d\n",
				imp.TotalRows, imp.ValidRows, imp.InvalidRows, imp.WarningsCount)
			for _, row := range imp.Rows {
				for _, issue := range row.Errors {
					fmt.Fprintf(out, "line %d: error: %s %s\n", row.Line, issue.Field, issue.Message)
				}
				for _, issue := range row.Warnings {
					fmt.Fprintf(out, "line %d: warning: %s %s\n", row.Line, issue.Field, issue.Message)
				}
			}
			if imp.InvalidRows > 0 {
				return fmt.Errorf("%d invalid row(s)", imp.InvalidRows)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}
