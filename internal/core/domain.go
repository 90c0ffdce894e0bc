package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FlagFAFEM Flag = "FAFEM"
	FlagRECAP Flag = "RECAP"
)

type (
	// Flag is the closed two-valued project classification of a record.
	Flag string

	Date struct {
		time.Time
	}

	// Record is one normalized row of the revenue table.
	Record struct {
		Date  Date // zero when the source cell could not be parsed
		Team  string
		Role  string
		Total decimal.Decimal
		HS1   decimal.Decimal
		HS2   decimal.Decimal
		HS3   decimal.Decimal
		Flag  Flag
	}

	// Table is an immutable collection of normalized records.
	Table struct {
		records []Record
	}
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidFlag = errors.New("invalid flag")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date is null (unparseable or unset).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the date as YYYY-MM-DD, or "" for a null date.
func (d Date) String() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format("2006-01-02")
}

// NewTable copies records into a new Table.
func NewTable(records []Record) *Table {
	return &Table{records: append([]Record(nil), records...)}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Rows returns a copy of the records so callers cannot mutate the table.
func (t *Table) Rows() []Record {
	if t == nil {
		return nil
	}
	return append([]Record(nil), t.records...)
}

// Each calls fn for every record in order without copying the slice.
func (t *Table) Each(fn func(Record)) {
	if t == nil {
		return
	}
	for _, r := range t.records {
		fn(r)
	}
}
