package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel file from the given quote ExportData and
// returns the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quote"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through H).
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 42, 10, 10, 14, 14, 14, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	manualItemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 10, Italic: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFF7E6"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create manual item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge parties: %w", err)
	}
	parties := fmt.Sprintf("From: %s    To: %s", data.ContractorName, data.ClientName)
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(parties))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	dateLine := "Date: " + data.CreatedDate
	if data.ExpiresDate != "" {
		dateLine += "    Valid Until: " + data.ExpiresDate
	}
	f.SetCellValue(sheetName, "A3", dateLine)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Description", "Qty", "Unit", "Labor", "Materials", "Markup", "Line Total"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)

		desc := r.Description
		if r.Note != "" {
			desc += " — " + r.Note
		}
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(desc))

		f.SetCellValue(sheetName, "C"+rowStr, r.Qty)
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Unit))
		f.SetCellValue(sheetName, "E"+rowStr, FormatUSD(r.LaborCost))
		f.SetCellValue(sheetName, "F"+rowStr, FormatUSD(r.MaterialTotal))
		f.SetCellValue(sheetName, "G"+rowStr, FormatUSD(r.MarkupAmount))
		f.SetCellValue(sheetName, "H"+rowStr, FormatUSD(r.Total))

		style := itemStyle
		if r.IsManuallyPriced {
			style = manualItemStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++

	writeSummary := func(label string, value float64) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "G"+rowStr, label)
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "H"+rowStr, FormatUSD(value))
		f.SetCellStyle(sheetName, "H"+rowStr, "H"+rowStr, summaryValueStyle)
		row++
	}

	writeSummary("Labor Total:", data.Totals.LaborTotal)
	writeSummary("Materials Total:", data.Totals.MaterialsTotal)
	writeSummary("Markup Total:", data.Totals.MarkupTotal)
	writeSummary("Grand Total:", data.Totals.GrandTotal)

	// Amount in words under the summary block.
	row++
	rowStr := fmt.Sprintf("%d", row)
	if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
		return nil, fmt.Errorf("merge amount in words: %w", err)
	}
	f.SetCellValue(sheetName, "A"+rowStr, "Amount: "+data.AmountInWords)
	f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, subtitleStyle)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
