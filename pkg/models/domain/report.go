package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the textual date format used at every boundary of the system
// (CLI flags, query parameters, period labels).
const DateLayout = "01-02-2006"

// Period is an inclusive calendar date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days between the period's bounds.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours() / 24)
}

// IsZero reports whether no bounds have been set.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Contains reports whether the given date falls within the period, inclusive
// of both bounds. Comparison is by calendar day.
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + " - " + p.End.Format(DateLayout)
}

// RegionAggregate is one output row: a canonical region with its revenue and
// tax sums, each rounded to 2 decimal places and never negative or absent.
type RegionAggregate struct {
	Region  Region
	Revenue decimal.Decimal
	Tax     decimal.Decimal
}

// SummaryTable is the final artifact of a report run. Rows always covers the
// full canonical enumeration in order, regardless of how sparse the input
// was, and Total equals the column-wise sum of the displayed rows.
type SummaryTable struct {
	Account string
	Period  Period
	Rows    []RegionAggregate
	Total   RegionAggregate
}

// ReportType is the fixed report-type phrase used in artifact headers and names.
const ReportType = "Revenue Tax Breakdown"

// ReportDescription is the human description placed in the artifact header block.
const ReportDescription = "Revenue/Tax breakdown by state"
