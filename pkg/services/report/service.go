package report

import (
	"context"
	"fmt"
)

// FetcherFactory builds the fetch pipeline for one account. Each account
// carries its own upstream credentials, so the fetcher cannot be shared.
type FetcherFactory func(account string) (Fetcher, error)

// Service runs report generations for any configured account.
type Service struct {
	fetchers FetcherFactory
	accounts AccountResolver
	renderer Renderer
	store    ArtifactStore
	history  RunRecorder
}

func NewService(
	fetchers FetcherFactory,
	accounts AccountResolver,
	renderer Renderer,
	store ArtifactStore,
	history RunRecorder,
) *Service {
	return &Service{
		fetchers: fetchers,
		accounts: accounts,
		renderer: renderer,
		store:    store,
		history:  history,
	}
}

func (s *Service) Run(ctx context.Context, account string, opts Options) (*Result, error) {
	var fetcher Fetcher
	if opts.Rows == nil {
		var err error
		fetcher, err = s.fetchers(account)
		if err != nil {
			return nil, fmt.Errorf("build fetcher for account %q: %w", account, err)
		}
	}

	return NewGenerator(fetcher, s.accounts, s.renderer, s.store, s.history).Run(ctx, account, opts)
}
