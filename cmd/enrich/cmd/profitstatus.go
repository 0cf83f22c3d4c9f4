package cmd

import (
	"fmt"
	"path/filepath"

	"infosources-backend/lib/corpus"
	"infosources-backend/services/profitstatus"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profitStatusCmd)
	profitStatusCmd.Flags().String("in", "", "input CSV or JSON of sources (name, url fields)")
	profitStatusCmd.Flags().String("out", "", "output CSV or JSON with profit status fields filled in")
	profitStatusCmd.Flags().Bool("research", false, "ask the model about sources the pattern classifier can't place")
	profitStatusCmd.MarkFlagRequired("in")
	profitStatusCmd.MarkFlagRequired("out")
}

var profitStatusCmd = &cobra.Command{
	Use:   "profit-status",
	Short: "Classifies sources as non-profit, for-profit, or government.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		research, _ := cmd.Flags().GetBool("research")

		records, err := corpus.Load(in)
		if err != nil {
			return err
		}

		// pattern pass: free, offline, covers the clear-cut cases
		for _, record := range records {
			if record["profit_status"] != "" && record["profit_status"] != string(profitstatus.StatusUnknown) {
				continue
			}
			record["profit_status"] = string(profitstatus.Classify(record["name"], record["url"]))
		}

		if research {
			if config.OpenAI.ApiKey == "" {
				return fmt.Errorf("research mode needs an openai api key in config.json5")
			}
			researcher := profitstatus.NewResearcher(config.OpenAI.ApiKey, config.OpenAI.Model)
			progressPath := filepath.Join(filepath.Dir(out), "research_progress.json")
			if err := researcher.ResearchAll(cmd.Context(), records, progressPath); err != nil {
				return err
			}
		}

		return corpus.Save(out, nil, records)
	},
}
