package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DomesticCountry is the ship-to country kept by the row filter.
const DomesticCountry = "US"

// StatusCancelled marks order rows excluded from aggregation.
const StatusCancelled = "Cancelled"

// PlaceholderProduct is the marker the upstream feed uses for removal orders
// and other rows with no real product behind them.
const PlaceholderProduct = "-"

// OrderLineItem is one sold unit from the upstream order feed. Instances are
// immutable once fetched; they only live for the duration of one report run.
type OrderLineItem struct {
	OrderID     string
	ProductID   string
	Price       decimal.Decimal
	Tax         decimal.Decimal
	ShipRegion  string
	ShipCountry string
	Status      string
	PurchasedAt time.Time
}

// Key returns a stable identity over every field, used to drop the exact
// duplicates that overlapping chunk boundaries produce.
func (o OrderLineItem) Key() string {
	return strings.Join([]string{
		o.OrderID,
		o.ProductID,
		o.Price.String(),
		o.Tax.String(),
		o.ShipRegion,
		o.ShipCountry,
		o.Status,
		o.PurchasedAt.UTC().Format(time.RFC3339),
	}, "|")
}
