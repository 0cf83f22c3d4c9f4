// Package cmd implements the enrich CLI: subcommands that run each
// enrichment workflow over the source spreadsheet.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"infosources-backend/lib/configutil"
	"infosources-backend/lib/scrapeclient"
	"infosources-backend/lib/sheets"
	"infosources-backend/lib/sqliteutil"
	"infosources-backend/lib/telemetry"
	"infosources-backend/services/judge"
	"infosources-backend/services/pipeline"
	"infosources-backend/services/pipeline/db"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type SheetConfig struct {
	CredentialsFile string `json:"credentials_file"`
	SpreadsheetId   string `json:"spreadsheet_id"`
	SheetName       string `json:"sheet_name"`
	ReadRange       string `json:"read_range"`
}

type ScrapeConfig struct {
	DelaySeconds   float64 `json:"delay_seconds"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	DumpDir        string  `json:"dump_dir"`
}

type OpenAIConfig struct {
	ApiKey string `json:"api_key"`
	Model  string `json:"model"`
}

type CheckpointConfig struct {
	Database string `json:"database"`
}

type Config struct {
	Sheet      SheetConfig      `json:"sheet"`
	Scrape     ScrapeConfig     `json:"scrape"`
	OpenAI     OpenAIConfig     `json:"openai"`
	Checkpoint CheckpointConfig `json:"checkpoint"`
}

var (
	config  Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "enrich looks information sources up on rating sites and writes the findings back to the source spreadsheet.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		telemetry.InitSlog(verbose)

		var err error
		config, err = configutil.ReadRecursively[Config]("config.json5")
		if err != nil {
			return fmt.Errorf("read config.json5: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScrapeClient() *resty.Client {
	return scrapeclient.New(scrapeclient.Options{
		Delay:   time.Duration(config.Scrape.DelaySeconds * float64(time.Second)),
		Timeout: time.Duration(config.Scrape.TimeoutSeconds * float64(time.Second)),
		DumpDir: config.Scrape.DumpDir,
	})
}

// newMatchJudge picks the judge from config: an LLM judge when an API
// key is present, plain string comparison otherwise.
func newMatchJudge() judge.MatchJudge {
	if config.OpenAI.ApiKey != "" {
		return judge.NewLLMJudge(config.OpenAI.ApiKey, config.OpenAI.Model)
	}
	return judge.StringJudge{}
}

// newSheetStore adapts the sheets client to the pipeline's store.
func newSheetStore(ctx context.Context) (*sheetStore, error) {
	client, err := sheets.NewClient(ctx, config.Sheet.CredentialsFile, config.Sheet.SpreadsheetId)
	if err != nil {
		return nil, err
	}
	return &sheetStore{
		client:    client,
		sheetName: config.Sheet.SheetName,
		readRange: config.Sheet.ReadRange,
	}, nil
}

type sheetStore struct {
	client    *sheets.Client
	sheetName string
	readRange string
}

func (s *sheetStore) Read(ctx context.Context) (sheets.RowSet, error) {
	return s.client.ReadRange(ctx, s.readRange)
}

func (s *sheetStore) Write(ctx context.Context, rowIndex, columnIndex int, value string) error {
	return s.client.UpdateCell(ctx, s.sheetName, rowIndex, columnIndex, value)
}

// runPipeline wires the shared pieces together and renders the summary.
func runPipeline(ctx context.Context, opts pipeline.Options) error {
	store, err := newSheetStore(ctx)
	if err != nil {
		return err
	}

	checkpoint, err := sqliteutil.OpenDB(db.Schema, config.Checkpoint.Database)
	if err != nil {
		return err
	}
	defer checkpoint.Close()

	tally, err := pipeline.NewRunner(store, checkpoint, opts).Run(ctx)
	if err != nil {
		return err
	}
	tally.Render(os.Stdout)
	return nil
}
