package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/tax-atlas/pkg/models/store"
	"github.com/de-tools/tax-atlas/pkg/services/daterange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAll(ctx context.Context, chunks []domain.Period) ([]domain.OrderLineItem, error) {
	args := m.Called(ctx, chunks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderLineItem), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(table *domain.SummaryTable) ([]byte, error) {
	args := m.Called(table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockArtifactStore struct {
	mock.Mock
}

func (m *mockArtifactStore) Save(ctx context.Context, name string, data []byte) error {
	return m.Called(ctx, name, data).Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, run storemodels.ReportRun) error {
	return m.Called(ctx, run).Error(0)
}

func fixedGenerator(f Fetcher, r Renderer, s ArtifactStore, h RunRecorder) *Generator {
	g := NewGenerator(f, staticResolver{"po": "Pacific Outfitters"}, r, s, h)
	g.now = func() time.Time { return time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC) }
	return g
}

func TestGeneratorRun(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path persists the named artifact and records the run", func(t *testing.T) {
		fetcher := new(mockFetcher)
		renderer := new(mockRenderer)
		store := new(mockArtifactStore)
		recorder := new(mockRecorder)

		rows := []domain.OrderLineItem{orderRow("CA", "10.00", "0.90")}
		fetcher.On("FetchAll", mock.Anything, mock.AnythingOfType("[]domain.Period")).Return(rows, nil).Once()
		renderer.On("Render", mock.AnythingOfType("*domain.SummaryTable")).Return([]byte("xlsx"), nil).Once()
		store.On("Save", mock.Anything, "Pacific Outfitters - Revenue Tax Breakdown - July 2024", []byte("xlsx")).Return(nil).Once()
		recorder.On("Record", mock.Anything, mock.MatchedBy(func(run storemodels.ReportRun) bool {
			return run.Status == storemodels.RunStatusCompleted && run.Account == "po"
		})).Return(nil).Once()

		result, err := fixedGenerator(fetcher, renderer, store, recorder).
			Run(ctx, "po", Options{Start: "07-01-2024", End: "07-31-2024"})

		require.NoError(t, err)
		assert.Equal(t, "Pacific Outfitters - Revenue Tax Breakdown - July 2024", result.Artifact)
		assert.Equal(t, 1, result.RowsFetched)
		assert.Equal(t, 1, result.RowsKept)
		require.NotNil(t, result.Table)
		assert.Equal(t, "po", result.Table.Account)

		fetcher.AssertExpectations(t)
		renderer.AssertExpectations(t)
		store.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("invalid range fails before any fetch", func(t *testing.T) {
		fetcher := new(mockFetcher)
		g := fixedGenerator(fetcher, new(mockRenderer), new(mockArtifactStore), nil)

		_, err := g.Run(ctx, "po", Options{Start: "07-31-2024", End: "07-01-2024"})

		var rangeErr *daterange.InvalidRangeError
		require.ErrorAs(t, err, &rangeErr)
		fetcher.AssertNotCalled(t, "FetchAll", mock.Anything, mock.Anything)
	})

	t.Run("fetch failure produces no artifact and a failed run record", func(t *testing.T) {
		fetcher := new(mockFetcher)
		store := new(mockArtifactStore)
		recorder := new(mockRecorder)

		fetcher.On("FetchAll", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down")).Once()
		recorder.On("Record", mock.Anything, mock.MatchedBy(func(run storemodels.ReportRun) bool {
			return run.Status == storemodels.RunStatusFailed
		})).Return(nil).Once()

		_, err := fixedGenerator(fetcher, new(mockRenderer), store, recorder).
			Run(ctx, "po", Options{Start: "07-01-2024", End: "07-31-2024"})

		require.Error(t, err)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		recorder.AssertExpectations(t)
	})

	t.Run("store failure surfaces and is recorded as failed", func(t *testing.T) {
		fetcher := new(mockFetcher)
		renderer := new(mockRenderer)
		store := new(mockArtifactStore)
		recorder := new(mockRecorder)

		fetcher.On("FetchAll", mock.Anything, mock.Anything).Return([]domain.OrderLineItem{}, nil).Once()
		renderer.On("Render", mock.Anything).Return([]byte("xlsx"), nil).Once()
		store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone")).Once()
		recorder.On("Record", mock.Anything, mock.MatchedBy(func(run storemodels.ReportRun) bool {
			return run.Status == storemodels.RunStatusFailed
		})).Return(nil).Once()

		_, err := fixedGenerator(fetcher, renderer, store, recorder).
			Run(ctx, "po", Options{Start: "07-01-2024", End: "07-31-2024"})

		require.Error(t, err)
		recorder.AssertExpectations(t)
	})

	t.Run("supplied dataset skips fetching and infers the period", func(t *testing.T) {
		fetcher := new(mockFetcher)
		renderer := new(mockRenderer)
		store := new(mockArtifactStore)

		early := orderRow("CA", "1.00", "0.00")
		early.PurchasedAt = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
		late := orderRow("TX", "2.00", "0.00")
		late.PurchasedAt = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

		renderer.On("Render", mock.Anything).Return([]byte("xlsx"), nil).Once()
		store.On("Save", mock.Anything, "Pacific Outfitters - Revenue Tax Breakdown - 06-02-2024 - 06-20-2024", mock.Anything).Return(nil).Once()

		result, err := fixedGenerator(fetcher, renderer, store, nil).
			Run(ctx, "po", Options{Rows: []domain.OrderLineItem{early, late}})

		require.NoError(t, err)
		assert.Equal(t, 2, result.RowsKept)
		fetcher.AssertNotCalled(t, "FetchAll", mock.Anything, mock.Anything)
	})

	t.Run("empty supplied dataset yields the zero table and never fetches", func(t *testing.T) {
		renderer := new(mockRenderer)
		store := new(mockArtifactStore)

		renderer.On("Render", mock.AnythingOfType("*domain.SummaryTable")).Return([]byte("xlsx"), nil).Once()
		store.On("Save", mock.Anything, "Pacific Outfitters - Revenue Tax Breakdown - July 2024", mock.Anything).Return(nil).Once()

		// No fetcher at all: a supplied dataset, even an empty one, must
		// complete without touching the upstream source.
		result, err := fixedGenerator(nil, renderer, store, nil).
			Run(ctx, "po", Options{Rows: []domain.OrderLineItem{}})

		require.NoError(t, err)
		assert.Equal(t, 0, result.RowsKept)
		require.Len(t, result.Table.Rows, len(domain.Regions))
		for _, row := range result.Table.Rows {
			assert.True(t, row.Revenue.IsZero())
			assert.True(t, row.Tax.IsZero())
		}
		assert.True(t, result.Table.Total.Revenue.IsZero())
		assert.Equal(t, "Pacific Outfitters - Revenue Tax Breakdown - July 2024", result.Artifact)
	})
}
