// Package source defines where the revenue table is read from.
package source

import (
	"context"

	"receita/internal/dataset"
)

// Ports for inbound data adapters.
type (
	// RowsReader returns the raw revenue table, header included. Structural
	// problems are reported as dataset.MalformedInputError.
	RowsReader interface {
		ReadRows(ctx context.Context) (*dataset.RawTable, error)
	}

	// RowsWriter replaces the stored revenue table.
	RowsWriter interface {
		ReplaceRows(ctx context.Context, raw *dataset.RawTable) (int, error)
	}
)
