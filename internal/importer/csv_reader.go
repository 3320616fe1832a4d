package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is prepended by spreadsheet exports and would end up in the first
// header name.
const utf8BOM = "\ufeff"

type CSVReader struct {
	reader io.Reader
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{reader: reader}
}

// Read returns one record per data row keyed by the lower-cased header.
// Rows shorter than the header leave the missing columns empty.
func (cr *CSVReader) Read() ([]map[string]string, error) {
	r := csv.NewReader(cr.reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv row: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := normalizeHeader(rows[0])
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, name := range header {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			record[name] = v
		}
		records = append(records, record)
	}
	return records, nil
}

func normalizeHeader(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if i == 0 {
			f = strings.TrimPrefix(f, utf8BOM)
		}
		out[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return out
}
