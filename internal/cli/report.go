package cli

import (
	"fmt"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/config"
	"verb-quiz-portal/internal/domain"
	"github.com/spf13/cobra"
)

// NewReportCmd prints the aggregate results report to stdout.
func NewReportCmd(configPath *string) *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print quiz result statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			records, malformed, err := store.ReadAll(cmd.Context())
			if err != nil {
				return err
			}
			report := app.Aggregate(records, week)
			report.Malformed = malformed
			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", domain.FilterAll, "quiz identifier to filter on, or \"all\"")
	return cmd
}

func printReport(cmd *cobra.Command, report domain.AggregateReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week:          %s\n", report.Week)
	fmt.Fprintf(out, "Students:      %d\n", report.TotalStudents)
	fmt.Fprintf(out, "Attempts:      %d\n", report.TotalAttempts)
	if report.AverageScore != nil {
		fmt.Fprintf(out, "Average score: %.2f\n", *report.AverageScore)
	} else {
		fmt.Fprintf(out, "Average score: n/a\n")
	}
	fmt.Fprintf(out, "Passing:       %d (%.1f%%)\n", report.TotalPassing, report.PassingRate)
	if report.Malformed > 0 {
		fmt.Fprintf(out, "Skipped rows:  %d\n", report.Malformed)
	}
	if len(report.Students) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Per student:")
		for _, row := range report.Students {
			fmt.Fprintf(out, "  %-20s mean %6.2f  attempts %d  weeks: %s\n",
				row.Student, row.MeanScore, row.Attempts, row.Weeks)
		}
	}
}
