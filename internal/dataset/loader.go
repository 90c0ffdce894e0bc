// Package dataset loads the semicolon-delimited revenue table and turns it
// into a normalized core.Table.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"receita/internal/core"
)

const delimiter = ';'

const utf8BOM = "\ufeff"

// RawTable is the loaded, not yet normalized, table: the header plus one
// slice of cells per data row, all of the same width as the header.
type RawTable struct {
	Header []string
	Rows   [][]core.Cell
}

// Width returns the number of header columns.
func (t *RawTable) Width() int { return len(t.Header) }

// Load parses semicolon-delimited text whose first record is the header.
// Blank lines are skipped and empty fields become null cells.
func Load(r io.Reader) (*RawTable, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // shape is checked below to report our own error

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed(0, "missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if isBlankRecord(header) {
		return nil, malformed(1, "empty header")
	}

	table := &RawTable{Header: trimAll(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) != table.Width() {
			if isBlankRecord(record) {
				continue
			}
			return nil, malformed(line, "expected %d fields, got %d", table.Width(), len(record))
		}
		row := make([]core.Cell, len(record))
		for i, v := range record {
			if v == "" {
				row[i] = core.NullCell()
				continue
			}
			row[i] = core.TextCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// LoadString is Load over an in-memory string.
func LoadString(s string) (*RawTable, error) {
	return Load(strings.NewReader(s))
}

// FromValues builds a RawTable from a value matrix such as the one returned by
// the Sheets API. The first row is the header. Rows shorter than the header are
// padded with null cells because spreadsheet APIs drop trailing empty cells;
// longer rows are malformed.
func FromValues(values [][]any) (*RawTable, error) {
	if len(values) == 0 {
		return nil, malformed(0, "missing header")
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = strings.TrimSpace(core.ValueCell(v).String())
	}
	if isBlankRecord(header) {
		return nil, malformed(1, "empty header")
	}

	table := &RawTable{Header: header}
	for i, vals := range values[1:] {
		if len(vals) == 0 {
			continue
		}
		if len(vals) > table.Width() {
			return nil, malformed(i+2, "expected %d fields, got %d", table.Width(), len(vals))
		}
		row := make([]core.Cell, table.Width())
		for j := range row {
			if j >= len(vals) {
				row[j] = core.NullCell()
				continue
			}
			c := core.ValueCell(vals[j])
			if c.Kind() == core.CellText && c.String() == "" {
				c = core.NullCell()
			}
			row[j] = c
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
