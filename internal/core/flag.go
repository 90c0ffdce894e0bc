package core

import "strings"

// AllFlags returns the closed set of project categories in display order.
func AllFlags() []Flag {
	return []Flag{FlagFAFEM, FlagRECAP}
}

// DeriveFlag maps a raw Flag cell onto the two allowed categories.
// Only text that trims and uppercases to exactly "FAFEM" is FAFEM; every
// other value, null included, is RECAP.
func DeriveFlag(c Cell) Flag {
	if strings.ToUpper(strings.TrimSpace(c.String())) == string(FlagFAFEM) {
		return FlagFAFEM
	}
	return FlagRECAP
}

// ParseFlag validates a user-selected filter value. Unlike DeriveFlag it
// rejects anything that is not one of the two labels.
func ParseFlag(s string) (Flag, error) {
	switch Flag(strings.ToUpper(strings.TrimSpace(s))) {
	case FlagFAFEM:
		return FlagFAFEM, nil
	case FlagRECAP:
		return FlagRECAP, nil
	}
	return "", ErrInvalidFlag
}

func (f Flag) String() string { return string(f) }
