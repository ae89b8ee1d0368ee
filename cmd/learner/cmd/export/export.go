package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"language-learner/cmd/learner/cmd/shared"
	"language-learner/internal/app/converter/export"
	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/repository/sqlite"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "output .xlsx path")
	_ = Cmd.MarkFlagRequired("output")
}

// Cmd exports the course's transcription catalog to Excel.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the course's transcription catalog to Excel",
	Long: `Export the course's transcription catalog to Excel

- Requires output.catalog to be set in the course config
- Rows are ordered newest first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := shared.Logger(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cfg, err := shared.LoadConfig(cmd, logger)
		if err != nil {
			return err
		}
		path := cfg.CatalogPath()
		if path == "" {
			return apperrors.New(apperrors.KindConfig, "output.catalog is not set")
		}

		db, err := sqlite.Open(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.GetAllByCourse(cmd.Context(), cfg.Course.Name)
		if err != nil {
			return err
		}
		if err := export.ToExcel(records, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d rows written to %s\n", len(records), outputFilePath)
		return nil
	},
}
