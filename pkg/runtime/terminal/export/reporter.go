package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/services/report"
	"github.com/shopspring/decimal"
)

type TableConfig struct {
	RegionWidth int
	AmountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RegionWidth: 24,
		AmountWidth: 16,
	}
}

// Reporter prints a summary table to the console as an aligned text table.
type Reporter struct {
	writer   io.Writer
	accounts report.AccountResolver
	config   TableConfig
}

func NewReporter(writer io.Writer, accounts report.AccountResolver) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer:   writer,
		accounts: accounts,
		config:   DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(table *domain.SummaryTable) error {
	display := c.displayName(table.Account)

	funcMap := template.FuncMap{
		"formatRow": func(region string, revenue, tax decimal.Decimal) string {
			return fmt.Sprintf("| %-*s | %*s | %*s |",
				c.config.RegionWidth, region,
				c.config.AmountWidth, "$"+revenue.StringFixed(2),
				c.config.AmountWidth, "$"+tax.StringFixed(2))
		},
		"formatHeader": func() string {
			return fmt.Sprintf("| %-*s | %*s | %*s |",
				c.config.RegionWidth, "States",
				c.config.AmountWidth, "Revenue",
				c.config.AmountWidth, "Tax")
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.RegionWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2))
		},
		"periodLabel": report.PeriodLabel,
		"reportType":  func() string { return domain.ReportType },
		"accountName": func() string { return display },
	}

	tmpl := `
{{accountName}} - {{reportType}} - {{periodLabel .Period}}
{{separator}}
{{formatHeader}}
{{separator}}
{{- range .Rows}}
{{formatRow .Region.Name .Revenue .Tax}}
{{- end}}
{{separator}}
{{formatRow "Total" .Total.Revenue .Total.Tax}}
{{separator}}
`
	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, table)
}

// displayName mirrors the artifact naming fallback so console, workbook,
// and file name all show the same account.
func (c *Reporter) displayName(account string) string {
	if c.accounts != nil {
		if name, ok := c.accounts.DisplayName(account); ok {
			return name
		}
	}
	return strings.ToUpper(account)
}
