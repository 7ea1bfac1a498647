package orders

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Column names of the flat-file order report.
const (
	colOrderID     = "amazon-order-id"
	colProductID   = "product-name"
	colPrice       = "item-price"
	colTax         = "item-tax"
	colShipState   = "ship-state"
	colShipCountry = "ship-country"
	colStatus      = "item-status"
	colPurchased   = "purchase-date"
)

var requiredColumns = []string{
	colOrderID,
	colProductID,
	colPrice,
	colTax,
	colShipState,
	colShipCountry,
	colStatus,
	colPurchased,
}

// ParseTSV decodes a tab-delimited flat-file order report into line items.
// A missing required column fails the whole report with a DataShapeError
// naming the column. Unparseable monetary cells default to zero, matching
// the feed's habit of leaving price/tax blank on promotional rows.
func ParseTSV(r io.Reader) ([]domain.OrderLineItem, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.OrderLineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &DataShapeError{Field: col}
		}
	}

	items := make([]domain.OrderLineItem, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		purchased, err := parsePurchaseDate(field(record, index[colPurchased]))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", colPurchased, err)
		}

		items = append(items, domain.OrderLineItem{
			OrderID:     field(record, index[colOrderID]),
			ProductID:   field(record, index[colProductID]),
			Price:       parseMoney(field(record, index[colPrice])),
			Tax:         parseMoney(field(record, index[colTax])),
			ShipRegion:  field(record, index[colShipState]),
			ShipCountry: field(record, index[colShipCountry]),
			Status:      field(record, index[colStatus]),
			PurchasedAt: purchased,
		})
	}
	return items, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseMoney(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parsePurchaseDate accepts the feed's ISO timestamps as well as bare dates.
func parsePurchaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty purchase date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	datePart, _, _ := strings.Cut(s, "T")
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized purchase date %q", s)
	}
	return t, nil
}
