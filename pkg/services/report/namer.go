package report

import (
	"fmt"
	"strings"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
)

// AccountResolver maps a raw account identifier to its display name.
type AccountResolver interface {
	DisplayName(id string) (string, bool)
}

// PeriodLabel derives the human-readable label for a period: an exact full
// calendar month reads as "July 2024", everything else as the literal
// formatted range.
func PeriodLabel(p domain.Period) string {
	firstOfMonth := p.Start.Day() == 1
	sameMonth := p.Start.Year() == p.End.Year() && p.Start.Month() == p.End.Month()
	lastOfMonth := p.End.AddDate(0, 0, 1).Day() == 1
	if firstOfMonth && sameMonth && lastOfMonth {
		return fmt.Sprintf("%s %d", p.Start.Month(), p.Start.Year())
	}
	return p.String()
}

// Namer derives artifact names for finished reports.
type Namer struct {
	accounts AccountResolver
}

func NewNamer(accounts AccountResolver) *Namer {
	return &Namer{accounts: accounts}
}

// Name builds the artifact name for a compiled summary table:
// "<account display name> - Revenue Tax Breakdown - <period label>". Unknown
// accounts fall back to the uppercased raw identifier. Naming before a table
// exists is a precondition failure.
func (n *Namer) Name(account string, table *domain.SummaryTable) (string, error) {
	if table == nil {
		return "", &PreconditionError{Step: "naming the report", Missing: "a compiled summary table"}
	}

	display, ok := n.accounts.DisplayName(account)
	if !ok {
		display = strings.ToUpper(account)
	}

	return fmt.Sprintf("%s - %s - %s", display, domain.ReportType, PeriodLabel(table.Period)), nil
}
