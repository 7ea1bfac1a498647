package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/tax-atlas/pkg/models/api"
	"github.com/de-tools/tax-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/tax-atlas/pkg/models/store"
	"github.com/de-tools/tax-atlas/pkg/services/account"
	"github.com/de-tools/tax-atlas/pkg/services/daterange"
	"github.com/de-tools/tax-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Generator runs one report generation end to end.
type Generator interface {
	Run(ctx context.Context, account string, opts report.Options) (*report.Result, error)
}

// HistoryReader lists past report runs.
type HistoryReader interface {
	ListByAccount(ctx context.Context, account string, limit int) ([]storemodels.ReportRun, error)
}

type Handler struct {
	accounts  account.Registry
	generator Generator
	history   HistoryReader
}

func NewHandler(accounts account.Registry, generator Generator, history HistoryReader) *Handler {
	return &Handler{
		accounts:  accounts,
		generator: generator,
		history:   history,
	}
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	response := make([]api.Account, 0)
	for _, acc := range h.accounts.List() {
		response = append(response, api.Account{ID: acc.ID, DisplayName: acc.DisplayName})
	}
	writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acc := chi.URLParam(r, "account")

	if _, ok := h.accounts.DisplayName(acc); !ok {
		writeError(ctx, w, http.StatusNotFound, "unknown account "+acc)
		return
	}

	opts := report.Options{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}

	result, err := h.generator.Run(ctx, acc, opts)
	if err != nil {
		var rangeErr *daterange.InvalidRangeError
		if errors.As(err, &rangeErr) {
			writeError(ctx, w, http.StatusBadRequest, rangeErr.Error())
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("account", acc).Msg("report run failed")
		writeError(ctx, w, http.StatusInternalServerError, "report generation failed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toGenerateResponse(acc, result))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acc := chi.URLParam(r, "account")

	if _, ok := h.accounts.DisplayName(acc); !ok {
		writeError(ctx, w, http.StatusNotFound, "unknown account "+acc)
		return
	}

	runs, err := h.history.ListByAccount(ctx, acc, 0)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account", acc).Msg("failed to list report runs")
		writeError(ctx, w, http.StatusInternalServerError, "failed to list report runs")
		return
	}

	response := make([]api.ReportRun, 0, len(runs))
	for _, run := range runs {
		period := domain.Period{Start: run.PeriodStart, End: run.PeriodEnd}
		response = append(response, api.ReportRun{
			Account:     run.Account,
			Period:      period.String(),
			Artifact:    run.Artifact,
			RowsFetched: run.RowsFetched,
			RowsKept:    run.RowsKept,
			Status:      run.Status,
			CreatedAt:   run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func toGenerateResponse(acc string, result *report.Result) api.GenerateReportResponse {
	table := make([]api.TableRow, 0, len(result.Table.Rows))
	for _, row := range result.Table.Rows {
		table = append(table, api.TableRow{
			Region:  row.Region.Name,
			Revenue: row.Revenue.StringFixed(2),
			Tax:     row.Tax.StringFixed(2),
		})
	}

	return api.GenerateReportResponse{
		Artifact:    result.Artifact,
		Account:     acc,
		Period:      result.Table.Period.String(),
		RowsFetched: result.RowsFetched,
		RowsKept:    result.RowsKept,
		Table:       table,
		Total: api.TableTotals{
			Revenue: result.Table.Total.Revenue.StringFixed(2),
			Tax:     result.Table.Total.Tax.StringFixed(2),
		},
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, api.Error{Message: message})
}
