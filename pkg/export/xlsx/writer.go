package xlsx

import (
	"fmt"
	"strings"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/services/report"
	"github.com/xuri/excelize/v2"
)

const (
	sheet     = "Sheet1"
	headerRow = 5
	firstData = 6

	headerFill     = "DDEBF7"
	currencyFormat = `"$"#,##0.00_);[Red]("$"#,##0.00)`
	columnWidth    = 20
)

// Writer renders a summary table into the fixed workbook layout the
// accounting office expects: a header block (account, report type, period),
// the States/Revenue/Tax table, and a bold Total row.
type Writer struct {
	accounts report.AccountResolver
}

func NewWriter(accounts report.AccountResolver) *Writer {
	return &Writer{accounts: accounts}
}

func (w *Writer) Render(table *domain.SummaryTable) ([]byte, error) {
	display, ok := w.accounts.DisplayName(table.Account)
	if !ok {
		display = strings.ToUpper(table.Account)
	}

	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]any{
		"A1": "Account",
		"A2": "Report",
		"A3": "Month",
		"B1": display,
		"B2": domain.ReportDescription,
		"B3": report.PeriodLabel(table.Period),
		"A5": "States",
		"B5": "Revenue",
		"C5": "Tax",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	for _, span := range [][2]string{{"B1", "C1"}, {"B2", "C2"}, {"B3", "C3"}} {
		if err := f.MergeCell(sheet, span[0], span[1]); err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", span[0], span[1], err)
		}
	}

	row := firstData
	for _, aggregate := range table.Rows {
		if err := w.setRow(f, row, aggregate.Region.Name, aggregate); err != nil {
			return nil, err
		}
		row++
	}
	totalRow := row
	if err := w.setRow(f, totalRow, "Total", table.Total); err != nil {
		return nil, err
	}

	if err := w.applyStyles(f, totalRow); err != nil {
		return nil, err
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A%d:C%d", headerRow, totalRow), nil); err != nil {
		return nil, fmt.Errorf("set auto filter: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) setRow(f *excelize.File, row int, label string, aggregate domain.RegionAggregate) error {
	values := map[string]any{
		fmt.Sprintf("A%d", row): label,
		fmt.Sprintf("B%d", row): aggregate.Revenue.InexactFloat64(),
		fmt.Sprintf("C%d", row): aggregate.Tax.InexactFloat64(),
	}
	for cell, value := range values {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func (w *Writer) applyStyles(f *excelize.File, totalRow int) error {
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	base, err := f.NewStyle(&excelize.Style{Alignment: centered})
	if err != nil {
		return fmt.Errorf("create base style: %w", err)
	}
	numFmt := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{Alignment: centered, CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("create currency style: %w", err)
	}
	boldLabel, err := f.NewStyle(&excelize.Style{
		Alignment: centered,
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}
	highlighted, err := f.NewStyle(&excelize.Style{
		Alignment: centered,
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("create highlight style: %w", err)
	}
	highlightedCurrency, err := f.NewStyle(&excelize.Style{
		Alignment:    centered,
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return fmt.Errorf("create highlight currency style: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("C%d", totalRow), base); err != nil {
		return fmt.Errorf("apply base style: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", firstData), fmt.Sprintf("C%d", totalRow-1), currency); err != nil {
		return fmt.Errorf("apply currency style: %w", err)
	}
	for _, cell := range []string{"A1", "A2", "A3"} {
		if err := f.SetCellStyle(sheet, cell, cell, boldLabel); err != nil {
			return fmt.Errorf("apply bold style to %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("C%d", headerRow), highlighted); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("A%d", totalRow), highlighted); err != nil {
		return fmt.Errorf("apply total label style: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", totalRow), fmt.Sprintf("C%d", totalRow), highlightedCurrency); err != nil {
		return fmt.Errorf("apply total style: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "C", columnWidth); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}
	return nil
}
