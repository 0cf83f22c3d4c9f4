// Package pipeline drives an enrichment run: it walks spreadsheet rows
// one at a time, hands each source to an enrichment function, and
// writes the results back. Rows are processed fully and sequentially;
// pacing between outbound calls is the scrape client's job.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"infosources-backend/lib/sheets"
	"infosources-backend/lib/textutil"
	"infosources-backend/services/judge"
	"infosources-backend/services/pipeline/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("infosources.services.pipeline")

// ErrNotFound is the outcome an enrichment function returns when the
// rating site has no page for the source. It is recorded, not retried.
var ErrNotFound = errors.New("source not listed")

// Store is the spreadsheet surface the pipeline needs. Cell writes are
// addressed with the coordinates the RowSet hands out.
type Store interface {
	Read(ctx context.Context) (sheets.RowSet, error)
	Write(ctx context.Context, rowIndex, columnIndex int, value string) error
}

// EnrichFunc looks a source up and returns its column values. Returning
// ErrNotFound marks the row not-found; any other error marks it failed
// and the run moves on.
type EnrichFunc func(ctx context.Context, source judge.SourceInfo) (map[string]string, error)

type Options struct {
	// Workflow namespaces checkpoint entries, e.g. "mbfc".
	Workflow string
	// NameColumn and UrlColumn identify the source on each row.
	NameColumn string
	UrlColumn  string
	// Columns are the write-back columns the enrichment fills in. A row
	// with all of them already populated is skipped.
	Columns []string
	// NotFoundValue, when non-empty, is written to every column of a
	// not-found row so reruns don't retry it.
	NotFoundValue string
	// CleanExisting re-cleans already-populated values in place instead
	// of skipping the row outright.
	CleanExisting bool

	Enrich EnrichFunc
}

type Runner struct {
	store Store
	qry   *db.Queries
	opts  Options
}

// NewRunner builds a runner. The checkpoint database is optional; pass
// nil to process every row on every run.
func NewRunner(store Store, checkpoint *sql.DB, opts Options) *Runner {
	var qry *db.Queries
	if checkpoint != nil {
		qry = db.New(checkpoint)
	}
	return &Runner{
		store: store,
		qry:   qry,
		opts:  opts,
	}
}

// Run processes every row and returns the outcome tally. Missing
// required columns abort the run before any row is touched; per-row
// failures are logged and counted but never stop the run.
func (r *Runner) Run(ctx context.Context) (Tally, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("workflow", r.opts.Workflow))

	rows, err := r.store.Read(ctx)
	if err != nil {
		return Tally{}, fmt.Errorf("read rows: %w", err)
	}
	if err := r.validateColumns(rows); err != nil {
		return Tally{}, err
	}

	tally := Tally{}
	for _, row := range rows.Rows {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		outcome := r.processRow(ctx, rows, row)
		tally.Add(outcome)
		slog.InfoContext(ctx, "processed row",
			"workflow", r.opts.Workflow,
			"row", row.Index,
			"name", row.Values[r.opts.NameColumn],
			"outcome", outcome,
		)
	}
	return tally, nil
}

func (r *Runner) validateColumns(rows sheets.RowSet) error {
	required := append([]string{r.opts.NameColumn, r.opts.UrlColumn}, r.opts.Columns...)
	for _, column := range required {
		if rows.ColumnIndex(column) < 0 {
			return fmt.Errorf("required column %q not present in sheet", column)
		}
	}
	return nil
}

func (r *Runner) processRow(ctx context.Context, rows sheets.RowSet, row sheets.Row) Outcome {
	name := row.Values[r.opts.NameColumn]
	url := row.Values[r.opts.UrlColumn]
	if name == "" || url == "" {
		return OutcomeSkipped
	}

	rowKey := name + "|" + url
	if r.isCheckpointed(ctx, rowKey) {
		return OutcomeSkipped
	}

	if r.rowComplete(row) {
		outcome := OutcomeSkipped
		if r.opts.CleanExisting {
			outcome = r.cleanRow(ctx, rows, row)
		}
		r.checkpoint(ctx, rowKey, outcome)
		return outcome
	}

	values, err := r.opts.Enrich(ctx, judge.SourceInfo{Name: name, Url: url})
	switch {
	case errors.Is(err, ErrNotFound):
		if r.opts.NotFoundValue != "" {
			for _, column := range r.opts.Columns {
				if err := r.writeCell(ctx, rows, row, column, r.opts.NotFoundValue); err != nil {
					slog.WarnContext(ctx, "write failed", "row", row.Index, "err", err)
					return OutcomeFailed
				}
			}
		}
		r.checkpoint(ctx, rowKey, OutcomeNotFound)
		return OutcomeNotFound
	case err != nil:
		slog.WarnContext(ctx, "enrichment failed",
			"workflow", r.opts.Workflow, "name", name, "err", err)
		return OutcomeFailed
	}

	wrote := false
	for _, column := range r.opts.Columns {
		value := values[column]
		if value == "" {
			continue
		}
		if err := r.writeCell(ctx, rows, row, column, value); err != nil {
			slog.WarnContext(ctx, "write failed", "row", row.Index, "err", err)
			return OutcomeFailed
		}
		wrote = true
	}
	// an all-empty result filled nothing in; without a checkpoint the
	// row stays retryable on the next run
	if !wrote {
		slog.WarnContext(ctx, "enrichment returned no values",
			"workflow", r.opts.Workflow, "name", name)
		return OutcomeFailed
	}
	r.checkpoint(ctx, rowKey, OutcomeUpdated)
	return OutcomeUpdated
}

// cleanRow re-runs rating cleanup over already-populated cells, writing
// back only the ones that change.
func (r *Runner) cleanRow(ctx context.Context, rows sheets.RowSet, row sheets.Row) Outcome {
	changed := false
	for _, column := range r.opts.Columns {
		value := row.Values[column]
		cleaned := textutil.CleanRating(value)
		if cleaned == value {
			continue
		}
		if err := r.writeCell(ctx, rows, row, column, cleaned); err != nil {
			slog.WarnContext(ctx, "write failed", "row", row.Index, "err", err)
			return OutcomeFailed
		}
		changed = true
	}
	if changed {
		return OutcomeCleaned
	}
	return OutcomeSkipped
}

func (r *Runner) rowComplete(row sheets.Row) bool {
	for _, column := range r.opts.Columns {
		if row.Values[column] == "" {
			return false
		}
	}
	return true
}

func (r *Runner) writeCell(ctx context.Context, rows sheets.RowSet, row sheets.Row, column, value string) error {
	return r.store.Write(ctx, row.Index, rows.ColumnIndex(column), value)
}

func (r *Runner) isCheckpointed(ctx context.Context, rowKey string) bool {
	if r.qry == nil {
		return false
	}
	done, err := r.qry.IsCompleted(ctx, r.opts.Workflow, rowKey)
	if err != nil {
		slog.WarnContext(ctx, "checkpoint read failed", "err", err)
		return false
	}
	return done
}

// checkpoint records a row as processed. The record is advisory: a
// failure here only means the row gets re-derived on the next run.
func (r *Runner) checkpoint(ctx context.Context, rowKey string, outcome Outcome) {
	if r.qry == nil {
		return
	}
	if err := r.qry.MarkCompleted(ctx, r.opts.Workflow, rowKey, string(outcome)); err != nil {
		slog.WarnContext(ctx, "checkpoint write failed", "err", err)
	}
}
