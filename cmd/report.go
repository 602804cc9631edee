package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the doctor report",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatVal, _ := cmd.Flags().GetString("format")
		days, _ := cmd.Flags().GetInt("days")
		analyze, _ := cmd.Flags().GetBool("analyze")
		out, _ := cmd.Flags().GetString("output")

		format, err := report.ParseFormat(formatVal)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		data, err := report.Build(ctx, report.Sources{
			Trials: e.store.TrialRepo(),
			Awards: e.store.AwardRepo(),
			Tasks:  e.store.TaskRepo(),
		}, report.Options{
			UserName: e.settings.UserName,
			Score:    e.score(cmd),
			Now:      time.Now(),
			Days:     days,
		})
		if err != nil {
			return fmt.Errorf("build report: %w", err)
		}

		if analyze {
			a := e.assistant(cmd).AnalyzeReport(ctx, data.Facts())
			data.Analysis = &report.Analysis{
				Summary:        a.Summary,
				Recommendation: a.Recommendation,
				Fallback:       a.Fallback,
			}
		}

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := data.Write(w, format); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	reportCmd.Flags().Int("days", report.DefaultDays, "Number of days covered by the trends")
	reportCmd.Flags().Bool("analyze", false, "Attach an AI summary and recommendation")
	reportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
