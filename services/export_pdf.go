package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a PDF document from quote export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, parties, and dates to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	gray := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("From: %s", data.ContractorName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: gray,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: gray,
				}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("To: %s", data.ClientName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: gray,
				}),
			),
			col.New(6).Add(
				text.New(validUntilLabel(data), props.Text{
					Size:  9,
					Align: align.Right,
					Color: gray,
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

func validUntilLabel(data ExportData) string {
	if data.ExpiresDate == "" {
		return ""
	}
	return fmt.Sprintf("Valid Until: %s", data.ExpiresDate)
}

// addTableHeader adds the column header row for the line item table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(4).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Labor", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Materials", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Markup", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Line Total", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a single line item row, shading manually priced items.
func addTableRow(m core.Maroto, r ExportRow) {
	var cellStyle *props.Cell
	if r.IsManuallyPriced {
		bg := &props.Color{Red: 255, Green: 247, Blue: 230}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{Size: 8, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	desc := r.Description
	if r.Note != "" {
		desc += " — " + r.Note
	}

	colIndex := col.New(1).Add(text.New(r.Index, baseText))
	colDesc := col.New(4).Add(text.New(desc, leftText))
	colQty := col.New(1).Add(text.New(FormatQty(r.Qty), rightText))
	colUnit := col.New(1).Add(text.New(r.Unit, baseText))
	colLabor := col.New(1).Add(text.New(FormatUSD(r.LaborCost), rightText))
	colMaterials := col.New(1).Add(text.New(FormatUSD(r.MaterialTotal), rightText))
	colMarkup := col.New(1).Add(text.New(FormatUSD(r.MarkupAmount), rightText))
	colTotal := col.New(2).Add(text.New(FormatUSD(r.Total), rightText))

	cols := []core.Col{colIndex, colDesc, colQty, colUnit, colLabor, colMaterials, colMarkup, colTotal}
	if cellStyle != nil {
		for i, c := range cols {
			cols[i] = c.WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(6).Add(cols...))
}

// addSummary adds the totals block below the table.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	summaryLabel := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	summaryValue := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	addSummaryRow := func(label string, value float64) {
		m.AddRows(
			row.New(6).Add(
				col.New(8),
				col.New(2).Add(text.New(label, summaryLabel)),
				col.New(2).Add(text.New(FormatUSD(value), summaryValue)),
			),
		)
	}

	addSummaryRow("Labor Total:", data.Totals.LaborTotal)
	addSummaryRow("Materials Total:", data.Totals.MaterialsTotal)
	addSummaryRow("Markup Total:", data.Totals.MarkupTotal)
	addSummaryRow("Grand Total:", data.Totals.GrandTotal)
}

// addFooter adds the amount in words and quote status.
func addFooter(m core.Maroto, data ExportData) {
	gray := &props.Color{Red: 80, Green: 80, Blue: 80}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Amount: "+data.AmountInWords, props.Text{
					Size:  9,
					Style: fontstyle.Italic,
					Align: align.Left,
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Status: %s", data.Status), props.Text{
					Size:  8,
					Align: align.Left,
					Color: gray,
				}),
			),
		),
	)
}
