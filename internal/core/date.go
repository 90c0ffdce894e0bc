package core

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order. Day-first forms come before ISO so an
// ambiguous "01/02/2024" is always the 1st of February.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
	"2006/01/02",
}

var timeSuffixes = []string{"", " 15:04", " 15:04:05", "T15:04:05", "T15:04:05Z07:00"}

// ParseDayFirst parses a date cell using the day-first convention. A time of
// day, if present, is discarded. The second result is false when no layout
// matches; callers keep the row with a null date.
func ParseDayFirst(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dayFirstLayouts {
		for _, suffix := range timeSuffixes {
			t, err := time.Parse(layout+suffix, s)
			if err != nil {
				continue
			}
			return NewDate(t.Year(), int(t.Month()), t.Day()), true
		}
	}
	return Date{}, false
}

// DateCell parses a raw date cell. Only text cells can carry a date.
func DateCell(c Cell) Date {
	if c.Kind() != CellText {
		return Date{}
	}
	d, _ := ParseDayFirst(c.String())
	return d
}

// ParseFilterDate parses a date bound supplied by a user. It accepts the
// HTML date input format (YYYY-MM-DD) as well as day-first input.
func ParseFilterDate(s string) (Date, error) {
	if d, ok := ParseDayFirst(s); ok {
		return d, nil
	}
	return Date{}, ErrInvalidDate
}
