package report

import (
	"testing"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func julyPeriod() domain.Period {
	return domain.Period{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}
}

func orderRow(region, price, tax string) domain.OrderLineItem {
	return domain.OrderLineItem{
		OrderID:     "111-001",
		ProductID:   "Widget",
		Price:       money(price),
		Tax:         money(tax),
		ShipRegion:  region,
		ShipCountry: "US",
		Status:      "Shipped",
		PurchasedAt: time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC),
	}
}

func rowFor(table *domain.SummaryTable, code string) domain.RegionAggregate {
	for _, r := range table.Rows {
		if r.Region.Code == code {
			return r
		}
	}
	return domain.RegionAggregate{}
}

func TestCompile(t *testing.T) {
	t.Run("empty row set yields full-shape zero table", func(t *testing.T) {
		table, kept, err := Compile(nil, julyPeriod())
		require.NoError(t, err)
		assert.Zero(t, kept)
		require.Len(t, table.Rows, len(domain.Regions))
		for _, row := range table.Rows {
			assert.True(t, row.Revenue.IsZero(), "%s revenue", row.Region.Code)
			assert.True(t, row.Tax.IsZero(), "%s tax", row.Region.Code)
		}
		assert.True(t, table.Total.Revenue.IsZero())
		assert.True(t, table.Total.Tax.IsZero())
	})

	t.Run("sums per region and totals match displayed rows", func(t *testing.T) {
		rows := []domain.OrderLineItem{
			orderRow("CA", "10.00", "0.90"),
			orderRow("California", "5.505", "0.50"),
			orderRow("TX", "20.00", "1.65"),
		}

		table, kept, err := Compile(rows, julyPeriod())
		require.NoError(t, err)
		assert.Equal(t, 3, kept)

		ca := rowFor(table, "CA")
		assert.Equal(t, "15.51", ca.Revenue.StringFixed(2)) // 15.505 rounded
		assert.Equal(t, "1.40", ca.Tax.StringFixed(2))

		tx := rowFor(table, "TX")
		assert.Equal(t, "20.00", tx.Revenue.StringFixed(2))

		var sumRevenue, sumTax decimal.Decimal
		for _, r := range table.Rows {
			sumRevenue = sumRevenue.Add(r.Revenue)
			sumTax = sumTax.Add(r.Tax)
		}
		assert.True(t, table.Total.Revenue.Equal(sumRevenue))
		assert.True(t, table.Total.Tax.Equal(sumTax))
	})

	t.Run("table covers the whole enumeration in fixed order", func(t *testing.T) {
		table, _, err := Compile([]domain.OrderLineItem{orderRow("WY", "1.00", "0.05")}, julyPeriod())
		require.NoError(t, err)
		require.Len(t, table.Rows, len(domain.Regions))
		for i, row := range table.Rows {
			assert.Equal(t, domain.Regions[i], row.Region)
		}
	})

	t.Run("filters are applied in order", func(t *testing.T) {
		cancelled := orderRow("CA", "9.99", "0.80")
		cancelled.Status = "Cancelled"

		foreign := orderRow("ON", "9.99", "0.80")
		foreign.ShipCountry = "CA"

		placeholder := orderRow("CA", "9.99", "0.80")
		placeholder.ProductID = "-"

		outOfRange := orderRow("CA", "9.99", "0.80")
		outOfRange.PurchasedAt = time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)

		rows := []domain.OrderLineItem{cancelled, foreign, placeholder, outOfRange, orderRow("CA", "1.00", "0.10")}
		table, kept, err := Compile(rows, julyPeriod())
		require.NoError(t, err)
		assert.Equal(t, 1, kept)
		assert.Equal(t, "1.00", rowFor(table, "CA").Revenue.StringFixed(2))
	})

	t.Run("purchase on the period bounds is kept", func(t *testing.T) {
		first := orderRow("CA", "1.00", "0.00")
		first.PurchasedAt = time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
		last := orderRow("CA", "2.00", "0.00")
		last.PurchasedAt = time.Date(2024, 7, 31, 23, 0, 0, 0, time.UTC)

		_, kept, err := Compile([]domain.OrderLineItem{first, last}, julyPeriod())
		require.NoError(t, err)
		assert.Equal(t, 2, kept)
	})

	t.Run("unmatched domestic locations land in Other", func(t *testing.T) {
		rows := []domain.OrderLineItem{
			orderRow("AE", "7.00", "0.00"), // armed forces europe
			orderRow("PUERTO RICO", "3.00", "0.00"),
		}
		table, _, err := Compile(rows, julyPeriod())
		require.NoError(t, err)
		assert.Equal(t, "10.00", rowFor(table, domain.Other.Code).Revenue.StringFixed(2))
	})

	t.Run("zero-value rows short-circuit to the zero table", func(t *testing.T) {
		rows := []domain.OrderLineItem{
			orderRow("CA", "0", "0"),
			orderRow("TX", "0", "0"),
		}
		table, kept, err := Compile(rows, julyPeriod())
		require.NoError(t, err)
		assert.Equal(t, 2, kept)
		require.Len(t, table.Rows, len(domain.Regions))
		assert.True(t, table.Total.Revenue.IsZero())
	})

	t.Run("zero period infers the range from the data", func(t *testing.T) {
		early := orderRow("CA", "1.00", "0.00")
		early.PurchasedAt = time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC)
		late := orderRow("TX", "2.00", "0.00")
		late.PurchasedAt = time.Date(2024, 7, 28, 21, 0, 0, 0, time.UTC)

		table, kept, err := Compile([]domain.OrderLineItem{early, late}, domain.Period{})
		require.NoError(t, err)
		assert.Equal(t, 2, kept)
		assert.Equal(t, time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), table.Period.Start)
		assert.Equal(t, time.Date(2024, 7, 28, 0, 0, 0, 0, time.UTC), table.Period.End)
	})
}
