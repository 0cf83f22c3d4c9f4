package pipeline

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Outcome string

const (
	// OutcomeUpdated: the enrichment found data and wrote it back.
	OutcomeUpdated Outcome = "updated"
	// OutcomeCleaned: existing values were re-cleaned in place.
	OutcomeCleaned Outcome = "cleaned"
	// OutcomeSkipped: nothing to do (missing name/url, already
	// complete, or checkpointed by a previous run).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNotFound: the rating site has no page for the source.
	OutcomeNotFound Outcome = "not found"
	// OutcomeFailed: a transient error; the row is retried next run.
	OutcomeFailed Outcome = "failed"
)

// Tally counts rows by outcome over a run.
type Tally struct {
	Updated  int
	Cleaned  int
	Skipped  int
	NotFound int
	Failed   int
}

func (t *Tally) Add(outcome Outcome) {
	switch outcome {
	case OutcomeUpdated:
		t.Updated++
	case OutcomeCleaned:
		t.Cleaned++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeNotFound:
		t.NotFound++
	case OutcomeFailed:
		t.Failed++
	}
}

func (t Tally) Total() int {
	return t.Updated + t.Cleaned + t.Skipped + t.NotFound + t.Failed
}

// Render writes the run summary as a table.
func (t Tally) Render(out io.Writer) {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.AppendHeader(table.Row{"Outcome", "Rows"})
	w.AppendRows([]table.Row{
		{string(OutcomeUpdated), t.Updated},
		{string(OutcomeCleaned), t.Cleaned},
		{string(OutcomeSkipped), t.Skipped},
		{string(OutcomeNotFound), t.NotFound},
		{string(OutcomeFailed), t.Failed},
	})
	w.AppendFooter(table.Row{"total", t.Total()})
	w.SetStyle(table.StyleRounded)
	w.Render()
}
