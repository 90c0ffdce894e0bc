package dataset

import (
	_ "embed"
	"strings"
)

//go:embed seed/hdt.csv
var seedCSV string

// Embedded returns the loader over the dataset compiled into the binary.
func Embedded() (*RawTable, error) {
	return Load(strings.NewReader(seedCSV))
}

// EmbeddedText returns the raw embedded dataset.
func EmbeddedText() string { return seedCSV }
