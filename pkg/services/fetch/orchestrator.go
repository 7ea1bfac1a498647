package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/services/orders"
	"github.com/de-tools/tax-atlas/pkg/services/retry"
	"github.com/rs/zerolog"
)

// DefaultMaxRetries is the per-chunk retry budget when the caller does not
// supply one.
const DefaultMaxRetries = 10

// TerminalError reports an exhausted retry budget for one chunk. It aborts
// the whole report run; no partial row set is ever returned.
type TerminalError struct {
	Chunk domain.Period
	Err   error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("fetch for chunk %s failed terminally: %v", e.Chunk, e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }

// Orchestrator retrieves raw rows for a sequence of chunks, strictly one
// chunk after another. Its only mutable state is the row accumulator for the
// current run, which nothing else observes until FetchAll returns.
type Orchestrator struct {
	source     orders.Source
	maxRetries int
	backoff    retry.Backoff
}

// NewOrchestrator wires a source with a per-chunk retry budget. A budget
// below zero falls back to DefaultMaxRetries.
func NewOrchestrator(source orders.Source, maxRetries int) *Orchestrator {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Orchestrator{
		source:     source,
		maxRetries: maxRetries,
		backoff:    retry.DefaultBackoff,
	}
}

// FetchAll fetches every chunk in order, retrying transient failures with
// exponential backoff, then concatenates the chunk row sets and drops exact
// duplicates. Chunk boundaries overlap by one day, so duplicates are
// expected, not a data error.
func (o *Orchestrator) FetchAll(ctx context.Context, chunks []domain.Period) ([]domain.OrderLineItem, error) {
	logger := zerolog.Ctx(ctx)

	policy := retry.Policy{
		MaxRetries: o.maxRetries,
		Backoff:    o.backoff,
		Retryable:  isTransient,
	}

	var accumulated []domain.OrderLineItem
	for i, chunk := range chunks {
		var rows []domain.OrderLineItem
		err := retry.Do(ctx, policy, func(ctx context.Context) error {
			var fetchErr error
			rows, fetchErr = o.source.FetchOrders(ctx, chunk)
			return fetchErr
		})
		if err != nil {
			if isTransient(err) {
				return nil, &TerminalError{Chunk: chunk, Err: err}
			}
			return nil, fmt.Errorf("fetch chunk %s: %w", chunk, err)
		}

		logger.Info().
			Int("chunk", i+1).
			Int("chunks", len(chunks)).
			Int("rows", len(rows)).
			Str("range", chunk.String()).
			Msg("chunk fetched")
		accumulated = append(accumulated, rows...)
	}

	return dedupe(accumulated), nil
}

func isTransient(err error) bool {
	var transient *orders.TransientError
	return errors.As(err, &transient)
}

// dedupe removes exact-duplicate rows while preserving first-seen order.
func dedupe(rows []domain.OrderLineItem) []domain.OrderLineItem {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}
