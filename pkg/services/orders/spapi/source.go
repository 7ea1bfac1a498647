package spapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/services/orders"
	"github.com/de-tools/tax-atlas/pkg/services/retry"
	"github.com/rs/zerolog"
)

const (
	reportType = "GET_FLAT_FILE_ALL_ORDERS_DATA_BY_ORDER_DATE_GENERAL"

	statusDone      = "DONE"
	statusFatal     = "FATAL"
	statusCancelled = "CANCELLED"

	defaultPollRetries = 10
	defaultTimeout     = 60 * time.Second
)

// Source fetches flat-file order reports from the seller reports API. Each
// chunk fetch is a request/poll/download cycle: create the report, poll until
// the upstream has generated it, then download and parse the TSV document.
type Source struct {
	cfg    *Config
	client *http.Client
	poll   retry.Policy
}

// NewSource creates a Source for one account profile.
func NewSource(cfg *Config) *Source {
	return &Source{
		cfg:    cfg,
		client: &http.Client{Timeout: defaultTimeout},
		poll: retry.Policy{
			MaxRetries: defaultPollRetries,
			Backoff:    retry.DefaultBackoff,
			Retryable:  IsTransient,
		},
	}
}

// IsTransient reports whether an error from this source is worth retrying.
func IsTransient(err error) bool {
	var transient *orders.TransientError
	return errors.As(err, &transient)
}

func (s *Source) FetchOrders(ctx context.Context, chunk domain.Period) ([]domain.OrderLineItem, error) {
	logger := zerolog.Ctx(ctx)

	reportID, err := s.createReport(ctx, chunk)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("report_id", reportID).
		Str("chunk", chunk.String()).
		Msg("order report requested")

	var documentID string
	err = retry.Do(ctx, s.poll, func(ctx context.Context) error {
		var pollErr error
		documentID, pollErr = s.reportStatus(ctx, reportID)
		return pollErr
	})
	if err != nil {
		return nil, err
	}

	body, err := s.downloadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	items, err := orders.ParseTSV(body)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("rows", len(items)).
		Str("chunk", chunk.String()).
		Msg("order report downloaded")
	return items, nil
}

type createReportRequest struct {
	ReportType     string   `json:"reportType"`
	DataStartTime  string   `json:"dataStartTime"`
	DataEndTime    string   `json:"dataEndTime"`
	MarketplaceIDs []string `json:"marketplaceIds"`
}

type createReportResponse struct {
	ReportID string `json:"reportId"`
}

func (s *Source) createReport(ctx context.Context, chunk domain.Period) (string, error) {
	payload, err := json.Marshal(createReportRequest{
		ReportType:     reportType,
		DataStartTime:  chunk.Start.Format(time.RFC3339),
		DataEndTime:    chunk.End.Format(time.RFC3339),
		MarketplaceIDs: []string{s.cfg.MarketplaceID},
	})
	if err != nil {
		return "", fmt.Errorf("marshal create report request: %w", err)
	}

	var resp createReportResponse
	err = s.do(ctx, http.MethodPost, s.cfg.Endpoint+"/reports/2021-06-30/reports", bytes.NewReader(payload), &resp)
	if err != nil {
		return "", err
	}
	if resp.ReportID == "" {
		return "", fmt.Errorf("create report returned no report id")
	}
	return resp.ReportID, nil
}

type reportStatusResponse struct {
	ProcessingStatus string `json:"processingStatus"`
	ReportDocumentID string `json:"reportDocumentId"`
}

func (s *Source) reportStatus(ctx context.Context, reportID string) (string, error) {
	var resp reportStatusResponse
	err := s.do(ctx, http.MethodGet, s.cfg.Endpoint+"/reports/2021-06-30/reports/"+reportID, nil, &resp)
	if err != nil {
		return "", err
	}

	switch resp.ProcessingStatus {
	case statusDone:
		if resp.ReportDocumentID == "" {
			return "", fmt.Errorf("report %s is done but has no document id", reportID)
		}
		return resp.ReportDocumentID, nil
	case statusFatal, statusCancelled:
		return "", fmt.Errorf("report %s ended in status %s", reportID, resp.ProcessingStatus)
	default:
		return "", &orders.TransientError{
			Op:  "poll report status",
			Err: fmt.Errorf("report %s still in status %s", reportID, resp.ProcessingStatus),
		}
	}
}

type reportDocumentResponse struct {
	URL string `json:"url"`
}

func (s *Source) downloadDocument(ctx context.Context, documentID string) (io.ReadCloser, error) {
	var doc reportDocumentResponse
	err := s.do(ctx, http.MethodGet, s.cfg.Endpoint+"/reports/2021-06-30/documents/"+documentID, nil, &doc)
	if err != nil {
		return nil, err
	}
	if doc.URL == "" {
		return nil, fmt.Errorf("document %s has no download url", documentID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build document request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &orders.TransientError{Op: "download document", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError("download document", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Source) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-amz-access-token", s.cfg.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &orders.TransientError{Op: method + " " + url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return statusError(method+" "+url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Throttling and upstream outages are retryable; everything else is not.
func statusError(op string, status int) error {
	err := fmt.Errorf("unexpected status %d", status)
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return &orders.TransientError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
