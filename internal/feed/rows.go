package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawRow is one data row of the export, keyed by column name. A missing
// column reads as the empty string.
type RawRow map[string]string

// ParseRows decodes a CSV export whose first record is the header. Rows
// shorter than the header pad with empty values; extra cells are dropped.
// Row order is preserved.
func ParseRows(data []byte) ([]RawRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feed: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []RawRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed: read row %d: %w", len(rows)+2, err)
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
