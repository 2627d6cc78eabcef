package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// LeadField describes one importable lead column.
type LeadField struct {
	Key      string
	Label    string
	Required bool
}

// LeadImportFields returns the columns accepted by the lead import.
func LeadImportFields() []LeadField {
	return []LeadField{
		{Key: "name", Label: "Name", Required: true},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "suburb", Label: "Suburb"},
		{Key: "address", Label: "Address"},
		{Key: "source", Label: "Source"},
		{Key: "status", Label: "Status"},
		{Key: "notes", Label: "Notes"},
	}
}

// RowError represents a single field-level error on one uploaded row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LeadImportResult is returned after parsing and validating an upload.
type LeadImportResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []RowError          `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
}

// parseCSVRows reads a CSV file and returns headers + data rows.
func parseCSVRows(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcelRows reads an xlsx file and returns headers + data rows from the
// first sheet.
func parseExcelRows(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapLeadHeaders maps uploaded column headers to lead field keys. Returns an
// ordered list of field keys (one per column, "" for unrecognized) plus the
// unrecognized header names.
func mapLeadHeaders(headers []string, fields []LeadField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		labelToKey[strings.ToLower(strings.TrimSpace(f.Label))] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateLeadFile parses and validates an uploaded lead file (CSV or xlsx,
// chosen by file name). Nothing is inserted; the parsed rows ride along in
// the result for a subsequent InsertLeads call.
func ValidateLeadFile(file io.Reader, fileName string) (*LeadImportResult, error) {
	fields := LeadImportFields()

	var headers []string
	var dataRows [][]string
	var err error
	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		headers, dataRows, err = parseExcelRows(file)
	} else {
		headers, dataRows, err = parseCSVRows(file)
	}
	if err != nil {
		return nil, err
	}

	mapped, unrecognized := mapLeadHeaders(headers, fields)
	if len(unrecognized) > 0 {
		return nil, fmt.Errorf("unrecognized columns: %s", strings.Join(unrecognized, ", "))
	}

	result := &LeadImportResult{TotalRows: len(dataRows)}

	validStatuses := make(map[string]bool, len(LeadStatusOptions))
	for _, s := range LeadStatusOptions {
		validStatuses[s] = true
	}

	for rowIdx, row := range dataRows {
		parsed := map[string]string{}
		for colIdx, key := range mapped {
			if key == "" || colIdx >= len(row) {
				continue
			}
			parsed[key] = strings.TrimSpace(row[colIdx])
		}

		rowNum := rowIdx + 2 // 1-based, after the header row
		hadError := false

		for _, f := range fields {
			if f.Required && parsed[f.Key] == "" {
				result.Errors = append(result.Errors, RowError{
					Row:     rowNum,
					Field:   f.Key,
					Message: f.Label + " is required",
				})
				hadError = true
			}
		}

		if status := parsed["status"]; status != "" && !validStatuses[status] {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", status),
			})
			hadError = true
		}

		if email := parsed["email"]; email != "" && !strings.Contains(email, "@") {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Field:   "email",
				Message: "invalid email address",
			})
			hadError = true
		}

		if hadError {
			result.ErrorRows++
			continue
		}
		result.ValidRows++
		result.ParsedRows = append(result.ParsedRows, parsed)
	}

	return result, nil
}

// InsertLeads writes validated rows as lead records in one transaction.
// Rows without a status default to "new".
func InsertLeads(app core.App, rows []map[string]string) (int, error) {
	leadsCol, err := app.FindCollectionByNameOrId("leads")
	if err != nil {
		return 0, fmt.Errorf("leads collection: %w", err)
	}

	inserted := 0
	err = app.RunInTransaction(func(txApp core.App) error {
		for _, row := range rows {
			rec := core.NewRecord(leadsCol)
			for key, val := range row {
				rec.Set(key, val)
			}
			if rec.GetString("status") == "" {
				rec.Set("status", "new")
			}
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("insert lead %q: %w", row["name"], err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
