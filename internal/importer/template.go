package importer

// template.go generates the downloadable one-row example spreadsheet for an
// entity: header row plus a correctly formatted sample row covering every
// column. It carries no validation logic; its purpose is schema discovery.

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Template returns CSV bytes with the given header columns and one sample
// row. The sample must have one value per column.
func Template(columns, sample []string) ([]byte, error) {
	if len(sample) != len(columns) {
		return nil, fmt.Errorf("template: %d sample values for %d columns", len(sample), len(columns))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	if err := w.Write(sample); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
