package cmd

import (
	"context"
	"errors"

	"infosources-backend/services/adfontes"
	"infosources-backend/services/judge"
	"infosources-backend/services/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(adfontesCmd)
}

var adfontesCmd = &cobra.Command{
	Use:   "adfontes",
	Short: "Enriches sources with Ad Fontes Media bias and reliability ratings.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		service := adfontes.NewService(newScrapeClient(), newMatchJudge())

		return runPipeline(cmd.Context(), pipeline.Options{
			Workflow:   "adfontes",
			NameColumn: "name",
			UrlColumn:  "url",
			Columns: []string{
				"adfontes_bias_label",
				"adfontes_reliability_label",
				"adfontes_bias_score",
				"adfontes_reliability_score",
			},
			// mark not-found rows so reruns don't search for them again
			NotFoundValue: "No Data",
			Enrich: func(ctx context.Context, source judge.SourceInfo) (map[string]string, error) {
				rating, err := service.Lookup(ctx, source)
				if errors.Is(err, adfontes.ErrNotFound) {
					return nil, pipeline.ErrNotFound
				}
				if err != nil {
					return nil, err
				}
				return rating.Columns(), nil
			},
		})
	},
}
