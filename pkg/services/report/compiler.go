package report

import (
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Compile normalizes and pivots raw order rows into the per-region summary
// table for the given period. A zero period means the caller supplied a
// pre-fetched dataset; the effective range is then inferred from the data's
// own purchase-date span. The returned count is the number of rows that
// survived filtering.
//
// The table shape is invariant: one row per canonical region (Other
// included), in enumeration order, plus a Total equal to the column-wise sum
// of the displayed rows.
func Compile(rows []domain.OrderLineItem, period domain.Period) (*domain.SummaryTable, int, error) {
	if period.IsZero() {
		period = inferPeriod(rows)
	}

	kept := filter(rows, period)

	// No meaningful sales for the range still produces a full-shape table,
	// just with zeroes everywhere.
	if isZeroSales(kept) {
		return zeroTable(period), len(kept), nil
	}

	type sums struct {
		revenue decimal.Decimal
		tax     decimal.Decimal
	}
	byRegion := make(map[string]sums, len(domain.Regions))
	for _, row := range kept {
		region := domain.CanonicalRegion(row.ShipRegion)
		s := byRegion[region.Code]
		s.revenue = s.revenue.Add(row.Price)
		s.tax = s.tax.Add(row.Tax)
		byRegion[region.Code] = s
	}

	table := &domain.SummaryTable{Period: period}
	totalRevenue, totalTax := decimal.Zero, decimal.Zero
	for _, region := range domain.Regions {
		s := byRegion[region.Code]
		revenue := s.revenue.Round(2)
		tax := s.tax.Round(2)
		table.Rows = append(table.Rows, domain.RegionAggregate{
			Region:  region,
			Revenue: revenue,
			Tax:     tax,
		})
		// Totals come from the rounded, displayed rows so the bottom line
		// always matches what the reader can add up by hand.
		totalRevenue = totalRevenue.Add(revenue)
		totalTax = totalTax.Add(tax)
	}
	table.Total = domain.RegionAggregate{Revenue: totalRevenue, Tax: totalTax}

	return table, len(kept), nil
}

// filter applies the row predicates in order: domestic shipments only, no
// cancelled orders, no placeholder products, purchase date inside the period.
func filter(rows []domain.OrderLineItem, period domain.Period) []domain.OrderLineItem {
	kept := make([]domain.OrderLineItem, 0, len(rows))
	for _, row := range rows {
		if row.ShipCountry != domain.DomesticCountry {
			continue
		}
		if row.Status == domain.StatusCancelled {
			continue
		}
		if row.ProductID == "" || row.ProductID == domain.PlaceholderProduct {
			continue
		}
		// The upstream feed always leaks a few out-of-range purchase dates.
		if !period.Contains(row.PurchasedAt) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func isZeroSales(rows []domain.OrderLineItem) bool {
	for _, row := range rows {
		if !row.Price.IsZero() || !row.Tax.IsZero() {
			return false
		}
	}
	return true
}

func zeroTable(period domain.Period) *domain.SummaryTable {
	table := &domain.SummaryTable{Period: period}
	for _, region := range domain.Regions {
		table.Rows = append(table.Rows, domain.RegionAggregate{
			Region:  region,
			Revenue: decimal.Zero,
			Tax:     decimal.Zero,
		})
	}
	table.Total = domain.RegionAggregate{Revenue: decimal.Zero, Tax: decimal.Zero}
	return table
}

func inferPeriod(rows []domain.OrderLineItem) domain.Period {
	var min, max time.Time
	for _, row := range rows {
		day := row.PurchasedAt
		if min.IsZero() || day.Before(min) {
			min = day
		}
		if max.IsZero() || day.After(max) {
			max = day
		}
	}
	if min.IsZero() {
		return domain.Period{}
	}
	return domain.Period{
		Start: time.Date(min.Year(), min.Month(), min.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(max.Year(), max.Month(), max.Day(), 0, 0, 0, 0, time.UTC),
	}
}
