package cmd

import (
	"context"
	"errors"

	"infosources-backend/services/judge"
	"infosources-backend/services/mbfc"
	"infosources-backend/services/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mbfcCmd)
	mbfcCmd.Flags().Bool("clean", false, "re-clean already-populated rating cells in place")
}

var mbfcCmd = &cobra.Command{
	Use:   "mbfc",
	Short: "Enriches sources with Media Bias/Fact Check ratings.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		clean, _ := cmd.Flags().GetBool("clean")
		service := mbfc.NewService(newScrapeClient(), newMatchJudge())

		return runPipeline(cmd.Context(), pipeline.Options{
			Workflow:      "mbfc",
			NameColumn:    "name",
			UrlColumn:     "url",
			Columns:       []string{"mbfc_bias", "mbfc_factual", "mbfc_credibility_rating"},
			CleanExisting: clean,
			Enrich: func(ctx context.Context, source judge.SourceInfo) (map[string]string, error) {
				rating, err := service.Lookup(ctx, source)
				if errors.Is(err, mbfc.ErrNotFound) {
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
