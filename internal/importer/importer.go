// Package importer implements the spreadsheet import pipeline shared by all
// bulk-import features: parse the uploaded file into rows, run the entity's
// ruleset over every field, and split rows into imported records and a
// structured error report.
//
// Commit semantics are per-row, not per-file: every row with zero validation
// errors is handed to the commit callback even when other rows in the same
// file failed. Whole-file atomicity is deliberately not provided; the tool
// exists so users can fix data issues iteratively and re-upload only the
// failed rows.
package importer

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"
)

// RowError is a single field-level validation failure tied to a row.
// Row numbers are 1-based counting the header row, so the first data row is
// row 2 — matching what the user sees in their spreadsheet program. Parse
// failures use Row 0 and Field "file".
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Stats summarizes one import attempt. Errors counts individual field
// errors and may exceed Total-Success when a row has several.
type Stats struct {
	Total     int       `json:"total"`
	Success   int       `json:"success"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// Row is one parsed data row keyed by lowercased column header.
type Row map[string]string

// Get returns the cleaned value of the named column, or "" when the column
// is absent from the file.
func (r Row) Get(field string) string {
	return r[strings.ToLower(field)]
}

// Validator checks one field value. It returns a user-facing message when
// the value is invalid and "" when it passes. Validators are pure: the same
// value always yields the same message.
type Validator func(value string) string

// FieldRule binds an ordered list of validators to one column.
type FieldRule struct {
	Field      string
	Validators []Validator
}

// Result is the outcome of one pipeline run.
type Result[T any] struct {
	Records []T        `json:"records"`
	Errors  []RowError `json:"errors"`
	Stats   Stats      `json:"stats"`
}

// Pipeline turns spreadsheet bytes into typed records for one entity.
type Pipeline[T any] struct {
	rules  []FieldRule
	mapRow func(Row) (T, error)
}

// New builds a pipeline from the entity's ruleset and row mapper. mapRow
// runs only on rows that passed every validator.
func New[T any](rules []FieldRule, mapRow func(Row) (T, error)) *Pipeline[T] {
	return &Pipeline[T]{rules: rules, mapRow: mapRow}
}

// Run parses data, validates every row, and returns the partitioned result.
// When at least one record is valid, commit is invoked with the valid
// records before Run returns; pass nil to skip committing.
//
// Failure semantics: an unreadable file or a file with no data rows yields a
// single explanatory RowError (Row 0, Field "file") and zero records. Run
// never panics and never returns a Go error; every failure is data in the
// report.
func (p *Pipeline[T]) Run(data []byte, commit func([]T)) Result[T] {
	res := Result[T]{Stats: Stats{Timestamp: time.Now().UTC()}}

	rows, fileErr := parse(data)
	if fileErr != "" {
		res.Errors = append(res.Errors, RowError{Row: 0, Field: "file", Message: fileErr})
		res.Stats.Errors = 1
		return res
	}

	for _, row := range rows {
		rowErrs := p.validate(row)
		if len(rowErrs) > 0 {
			res.Errors = append(res.Errors, rowErrs...)
			continue
		}

		rec, err := p.mapRow(row.values)
		if err != nil {
			res.Errors = append(res.Errors, RowError{
				Row:     row.number,
				Field:   "row",
				Message: err.Error(),
			})
			continue
		}
		res.Records = append(res.Records, rec)
	}

	res.Stats.Total = len(rows)
	res.Stats.Success = len(res.Records)
	res.Stats.Errors = len(res.Errors)

	if len(res.Records) > 0 && commit != nil {
		commit(res.Records)
	}
	return res
}

// validate runs every rule's validators in declared order and collects all
// failures so the report names each bad field, not just the first.
func (p *Pipeline[T]) validate(row numberedRow) []RowError {
	var errs []RowError
	for _, rule := range p.rules {
		value := row.values.Get(rule.Field)
		for _, v := range rule.Validators {
			if msg := v(value); msg != "" {
				errs = append(errs, RowError{
					Row:     row.number,
					Field:   rule.Field,
					Message: msg,
					Data:    value,
				})
				break
			}
		}
	}
	return errs
}

type numberedRow struct {
	number int
	values Row
}

// parse decodes and splits the file into data rows keyed by header. The
// returned message is "" on success and a user-facing description otherwise.
func parse(data []byte) ([]numberedRow, string) {
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, "no se pudo leer el archivo: " + err.Error()
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, "archivo no válido: " + err.Error()
	}
	if len(records) == 0 {
		return nil, "el archivo está vacío"
	}

	header := records[0]
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(CleanCell(h))
	}

	var rows []numberedRow
	for i, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		values := make(Row, len(keys))
		for j, key := range keys {
			if key == "" || j >= len(rec) {
				continue
			}
			values[key] = CleanCell(rec[j])
		}
		// header is row 1, so the first data row is row 2
		rows = append(rows, numberedRow{number: i + 2, values: values})
	}

	if len(rows) == 0 {
		return nil, "el archivo no contiene filas de datos"
	}
	return rows, ""
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, the Excel formula prefix (="value"), and stray
// quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

func isEmptyRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
