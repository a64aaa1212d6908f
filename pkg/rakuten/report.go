package rakuten

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Report is a payment report split into its header and data rows.
type Report struct {
	Header []string
	Rows   [][]string
}

// Records returns each row keyed by header name. Short rows leave missing columns empty.
func (r Report) Records() []map[string]string {
	out := make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make(map[string]string, len(r.Header))
		for i, col := range r.Header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// ParseReport splits the CSV text returned by GetPayments. The first record is the header.
func ParseReport(text string) (Report, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, &DecodeError{Format: FormatCSV, Raw: text, Err: fmt.Errorf("read header: %w", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, &DecodeError{Format: FormatCSV, Raw: text, Err: err}
		}
		rows = append(rows, row)
	}
	return Report{Header: header, Rows: rows}, nil
}
