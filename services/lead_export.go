package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// LeadExportColumn defines a column in the lead export file.
type LeadExportColumn struct {
	Header string
	Field  string  // field name on the PocketBase record
	Width  float64 // column width in Excel units
}

// LeadExportColumns returns the export columns in order.
func LeadExportColumns() []LeadExportColumn {
	return []LeadExportColumn{
		{Header: "Name", Field: "name", Width: 28},
		{Header: "Email", Field: "email", Width: 30},
		{Header: "Phone", Field: "phone", Width: 18},
		{Header: "Suburb", Field: "suburb", Width: 20},
		{Header: "Address", Field: "address", Width: 35},
		{Header: "Source", Field: "source", Width: 14},
		{Header: "Status", Field: "status", Width: 12},
		{Header: "Notes", Field: "notes", Width: 40},
	}
}

// leadRows converts lead records into ordered string rows matching columns.
func leadRows(records []*core.Record, columns []LeadExportColumn) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec.GetString(col.Field)
		}
		rows = append(rows, row)
	}
	return rows
}

// GenerateLeadCSV writes lead records as a CSV file.
func GenerateLeadCSV(records []*core.Record) ([]byte, error) {
	columns := LeadExportColumns()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range leadRows(records, columns) {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateLeadExcel writes lead records as a styled xlsx workbook.
func GenerateLeadExcel(records []*core.Record) ([]byte, error) {
	columns := LeadExportColumns()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
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

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{
			Vertical: "center",
			WrapText: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	for i, col := range columns {
		colLetter := excelColName(i)
		f.SetColWidth(sheetName, colLetter, colLetter, col.Width)
	}

	lastCol := excelColName(len(columns) - 1)

	// Row 1: title
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellValue(sheetName, "A1", "Lead Register")
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	// Row 2: subtitle with count
	f.MergeCell(sheetName, "A2", lastCol+"2")
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Total: %d leads", len(records)))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// Row 4: column headers
	for i, col := range columns {
		cell := fmt.Sprintf("%s4", excelColName(i))
		f.SetCellValue(sheetName, cell, col.Header)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	// Freeze everything above the data rows.
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true,
		YSplit: 4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})

	rowNum := 5
	for _, row := range leadRows(records, columns) {
		for i, val := range row {
			cell := fmt.Sprintf("%s%d", excelColName(i), rowNum)
			f.SetCellValue(sheetName, cell, sanitizeExcelCell(val))
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), dataStyle)
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// excelColName converts a 0-based column index to an Excel column letter.
func excelColName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

// sanitizeExcelCell prefixes values that spreadsheet apps would otherwise
// interpret as formulas.
func sanitizeExcelCell(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@':
		return "'" + val
	}
	if strings.HasPrefix(val, "\t") || strings.HasPrefix(val, "\r") {
		return "'" + val
	}
	return val
}
