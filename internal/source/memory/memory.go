// Package memory serves the revenue table from text held in memory: the
// dataset compiled into the binary or a CSV file read at start-up.
package memory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"receita/internal/dataset"
	"receita/internal/source"
)

var _ source.RowsReader = (*Store)(nil)

type Store struct {
	name string
	text string
}

// New serves the given semicolon-delimited text.
func New(name, text string) *Store {
	return &Store{name: name, text: text}
}

// NewEmbedded serves the dataset compiled into the binary.
func NewEmbedded() *Store {
	return New("embedded", dataset.EmbeddedText())
}

// NewFromFile reads path once. An empty path falls back to the embedded dataset.
func NewFromFile(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return NewEmbedded(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return New(path, string(b)), nil
}

// Name describes where the text came from.
func (s *Store) Name() string { return s.name }

// ReadRows parses the stored text.
func (s *Store) ReadRows(_ context.Context) (*dataset.RawTable, error) {
	return dataset.LoadString(s.text)
}
