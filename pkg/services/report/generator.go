package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/tax-atlas/pkg/models/store"
	"github.com/de-tools/tax-atlas/pkg/services/daterange"
	"github.com/rs/zerolog"
)

// Fetcher retrieves and merges the raw rows for a chunked period.
type Fetcher interface {
	FetchAll(ctx context.Context, chunks []domain.Period) ([]domain.OrderLineItem, error)
}

// Renderer turns a summary table into a finished artifact body.
type Renderer interface {
	Render(table *domain.SummaryTable) ([]byte, error)
}

// ArtifactStore persists a named artifact.
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
}

// RunRecorder keeps the history of report runs.
type RunRecorder interface {
	Record(ctx context.Context, run storemodels.ReportRun) error
}

// Generator runs the whole pipeline: resolve the period, split it, fetch the
// chunks, compile the table, render it, name it, persist it, record the run.
// Either the full pipeline completes or nothing is handed to the store.
type Generator struct {
	fetcher  Fetcher
	accounts AccountResolver
	renderer Renderer
	store    ArtifactStore
	history  RunRecorder
	now      func() time.Time
}

// Options tune one report run.
type Options struct {
	// Start and End bound the report period in the boundary date format.
	// Leave both empty to default to the previous calendar month.
	Start string
	End   string
	// Rows supplies a pre-fetched dataset instead of hitting the upstream
	// source. The period is then inferred from the data's own date span and
	// Start/End are ignored.
	Rows []domain.OrderLineItem
}

// Result describes a completed run.
type Result struct {
	Artifact    string
	Table       *domain.SummaryTable
	RowsFetched int
	RowsKept    int
}

func NewGenerator(
	fetcher Fetcher,
	accounts AccountResolver,
	renderer Renderer,
	store ArtifactStore,
	history RunRecorder,
) *Generator {
	return &Generator{
		fetcher:  fetcher,
		accounts: accounts,
		renderer: renderer,
		store:    store,
		history:  history,
		now:      time.Now,
	}
}

func (g *Generator) Run(ctx context.Context, account string, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("account", account).Logger()
	ctx = logger.WithContext(ctx)

	result, err := g.run(ctx, account, opts)
	if g.history != nil {
		g.recordRun(ctx, account, result, err)
	}
	return result, err
}

func (g *Generator) run(ctx context.Context, account string, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	rows := opts.Rows
	var period domain.Period

	if rows == nil {
		var err error
		period, err = daterange.Resolve(opts.Start, opts.End, g.now())
		if err != nil {
			return nil, err
		}

		chunks := daterange.Split(period)
		logger.Info().
			Str("period", period.String()).
			Int("chunks", len(chunks)).
			Msg("report run started")

		rows, err = g.fetcher.FetchAll(ctx, chunks)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info().Int("rows", len(rows)).Msg("report run started from supplied dataset")

		// A dataset with no rows carries no dates to infer the range from;
		// fall back to the previous month so the artifact gets a real label.
		if len(rows) == 0 {
			var err error
			period, err = daterange.Default(daterange.PolicyPreviousMonth, g.now())
			if err != nil {
				return nil, err
			}
		}
	}

	table, kept, err := Compile(rows, period)
	if err != nil {
		return nil, err
	}
	table.Account = account

	name, err := NewNamer(g.accounts).Name(account, table)
	if err != nil {
		return nil, err
	}

	body, err := g.renderer.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render artifact: %w", err)
	}

	if err := g.store.Save(ctx, name, body); err != nil {
		return nil, fmt.Errorf("persist artifact %q: %w", name, err)
	}

	logger.Info().
		Str("artifact", name).
		Int("rows_fetched", len(rows)).
		Int("rows_kept", kept).
		Msg("report run completed")

	return &Result{
		Artifact:    name,
		Table:       table,
		RowsFetched: len(rows),
		RowsKept:    kept,
	}, nil
}

func (g *Generator) recordRun(ctx context.Context, account string, result *Result, runErr error) {
	run := storemodels.ReportRun{
		Account:   account,
		Status:    storemodels.RunStatusCompleted,
		CreatedAt: g.now(),
	}
	if runErr != nil {
		run.Status = storemodels.RunStatusFailed
	}
	if result != nil {
		run.PeriodStart = result.Table.Period.Start
		run.PeriodEnd = result.Table.Period.End
		run.Artifact = result.Artifact
		run.RowsFetched = int64(result.RowsFetched)
		run.RowsKept = int64(result.RowsKept)
	}

	if err := g.history.Record(ctx, run); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to record report run")
	}
}
