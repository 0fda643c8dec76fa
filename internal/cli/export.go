package cli

import (
	"fmt"
	"os"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/config"
	"verb-quiz-portal/internal/domain"
	"github.com/spf13/cobra"
)

// NewExportCmd writes the results CSV to a file.
func NewExportCmd(configPath *string) *cobra.Command {
	var week, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export quiz results as CSV",
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

			records, _, err := store.ReadAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return domain.ErrNoResults
			}
			data, name := app.Export(records, week)
			if out != "" {
				name = out
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", domain.FilterAll, "quiz identifier to filter on, or \"all\"")
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the suggested filename)")
	return cmd
}
