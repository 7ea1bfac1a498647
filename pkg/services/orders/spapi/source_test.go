package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/services/orders"
	"github.com/de-tools/tax-atlas/pkg/services/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentBody = "amazon-order-id\tproduct-name\titem-price\titem-tax\tship-state\tship-country\titem-status\tpurchase-date\n" +
	"111-001\tWidget\t19.99\t1.75\tCA\tUS\tShipped\t2024-07-03\n"

func testSource(endpoint string) *Source {
	s := NewSource(&Config{
		Endpoint:      endpoint,
		AccessToken:   "token",
		MarketplaceID: "MKT1",
	})
	s.poll = retry.Policy{
		MaxRetries: 3,
		Backoff:    retry.Backoff{Base: time.Millisecond, Growth: 1.0},
		Retryable:  IsTransient,
	}
	return s
}

func TestFetchOrders(t *testing.T) {
	chunk := domain.Period{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("full request poll download cycle", func(t *testing.T) {
		polls := 0
		mux := http.NewServeMux()
		var server *httptest.Server

		mux.HandleFunc("POST /reports/2021-06-30/reports", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "token", r.Header.Get("x-amz-access-token"))
			var req createReportRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, reportType, req.ReportType)
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(createReportResponse{ReportID: "r1"})
		})
		mux.HandleFunc("GET /reports/2021-06-30/reports/r1", func(w http.ResponseWriter, r *http.Request) {
			polls++
			status := "IN_PROGRESS"
			doc := ""
			if polls >= 3 {
				status, doc = statusDone, "d1"
			}
			_ = json.NewEncoder(w).Encode(reportStatusResponse{ProcessingStatus: status, ReportDocumentID: doc})
		})
		mux.HandleFunc("GET /reports/2021-06-30/documents/d1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(reportDocumentResponse{URL: server.URL + "/download"})
		})
		mux.HandleFunc("GET /download", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, documentBody)
		})

		server = httptest.NewServer(mux)
		defer server.Close()

		items, err := testSource(server.URL).FetchOrders(context.Background(), chunk)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "111-001", items[0].OrderID)
		assert.Equal(t, 3, polls)
	})

	t.Run("throttling is surfaced as transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := testSource(server.URL).FetchOrders(context.Background(), chunk)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("fatal report status is not transient", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /reports/2021-06-30/reports", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(createReportResponse{ReportID: "r1"})
		})
		mux.HandleFunc("GET /reports/2021-06-30/reports/r1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(reportStatusResponse{ProcessingStatus: statusFatal})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := testSource(server.URL).FetchOrders(context.Background(), chunk)
		require.Error(t, err)
		assert.False(t, IsTransient(err))
	})

	t.Run("bad document shape becomes a data shape error", func(t *testing.T) {
		mux := http.NewServeMux()
		var server *httptest.Server
		mux.HandleFunc("POST /reports/2021-06-30/reports", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(createReportResponse{ReportID: "r1"})
		})
		mux.HandleFunc("GET /reports/2021-06-30/reports/r1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(reportStatusResponse{ProcessingStatus: statusDone, ReportDocumentID: "d1"})
		})
		mux.HandleFunc("GET /reports/2021-06-30/documents/d1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(reportDocumentResponse{URL: server.URL + "/download"})
		})
		mux.HandleFunc("GET /download", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "amazon-order-id\tproduct-name\n")
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		_, err := testSource(server.URL).FetchOrders(context.Background(), chunk)
		var shapeErr *orders.DataShapeError
		require.ErrorAs(t, err, &shapeErr)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sellercfg")
	content := "[po]\nendpoint = https://api.example.com\naccess_token = secret\nmarketplace_id = MKT1\n\n[bare]\nendpoint = https://api.example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Run("loads a complete profile", func(t *testing.T) {
		cfg, err := LoadConfig(path, "po")
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.Endpoint)
		assert.Equal(t, "secret", cfg.AccessToken)
		assert.Equal(t, "MKT1", cfg.MarketplaceID)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := LoadConfig(path, "nope")
		assert.Error(t, err)
	})

	t.Run("incomplete profile", func(t *testing.T) {
		_, err := LoadConfig(path, "bare")
		assert.Error(t, err)
	})
}
