package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// CatalogExportColumn defines a column in the catalog export spreadsheet.
type CatalogExportColumn struct {
	Header string
	Field  string  // field name on the PocketBase record
	Width  float64 // column width in Excel units
}

// CatalogExportData holds all data needed for catalog export.
type CatalogExportData struct {
	ContractorName string
	Columns        []CatalogExportColumn
	Rows           []map[string]string // each row is field -> value
}

// CatalogColumns returns the export columns for the template catalog.
func CatalogColumns() []CatalogExportColumn {
	return []CatalogExportColumn{
		{Header: "Name", Field: "name", Width: 35},
		{Header: "Description", Field: "description", Width: 45},
		{Header: "Category", Field: "category", Width: 15},
		{Header: "Unit", Field: "unit", Width: 10},
		{Header: "Base Price", Field: "base_price", Width: 14},
		{Header: "Labor Hours", Field: "labor_hours", Width: 14},
		{Header: "Material Cost", Field: "material_cost", Width: 14},
		{Header: "Markup %", Field: "markup_percent", Width: 12},
		{Header: "Active", Field: "active", Width: 10},
	}
}

// BuildCatalogExportData loads a contractor's templates into export rows.
func BuildCatalogExportData(app *pocketbase.PocketBase, contractorID string) (CatalogExportData, error) {
	data := CatalogExportData{Columns: CatalogColumns()}

	contractor, err := app.FindRecordById("contractors", contractorID)
	if err != nil {
		return data, fmt.Errorf("contractor not found: %w", err)
	}
	data.ContractorName = contractor.GetString("name")

	records, err := app.FindRecordsByFilter(
		"line_item_templates",
		"contractor = {:contractorId}",
		"name",
		0,
		0,
		map[string]any{"contractorId": contractorID},
	)
	if err != nil {
		return data, fmt.Errorf("load templates: %w", err)
	}

	for _, rec := range records {
		row := map[string]string{
			"name":           rec.GetString("name"),
			"description":    rec.GetString("description"),
			"category":       rec.GetString("category"),
			"unit":           rec.GetString("unit"),
			"base_price":     fmt.Sprintf("%.2f", rec.GetFloat("base_price")),
			"labor_hours":    fmt.Sprintf("%.2f", rec.GetFloat("labor_hours")),
			"material_cost":  fmt.Sprintf("%.2f", rec.GetFloat("material_cost")),
			"markup_percent": fmt.Sprintf("%.2f", rec.GetFloat("markup_percent")),
			"active":         "No",
		}
		if rec.GetBool("active") {
			row["active"] = "Yes"
		}
		data.Rows = append(data.Rows, row)
	}

	return data, nil
}

// GenerateCatalogExcel creates an Excel file from catalog export data.
func GenerateCatalogExcel(data CatalogExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catalog"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	columns := columnLetters(len(data.Columns))
	lastCol := columns[len(columns)-1]

	// Title row.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.ContractorName+" - Item Catalog"))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	// Header row.
	for i, c := range data.Columns {
		cell := fmt.Sprintf("%s3", columns[i])
		f.SetCellValue(sheetName, cell, c.Header)
		f.SetColWidth(sheetName, columns[i], columns[i], c.Width)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"3", headerStyle)

	// Data rows.
	rowNum := 4
	for _, row := range data.Rows {
		rowStr := fmt.Sprintf("%d", rowNum)
		for i, c := range data.Columns {
			f.SetCellValue(sheetName, columns[i]+rowStr, sanitizeExcelCell(row[c.Field]))
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, rowStyle)
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
