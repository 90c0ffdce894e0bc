package dataset

import (
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"receita/internal/core"
)

// NormalizeStats counts the cells that fell back to a default value.
type NormalizeStats struct {
	Rows                int
	InvalidDates        int
	InvalidMoneyCells   int
	MissingMoneyColumns []string
	FlagColumnPresent   bool
}

// Normalize converts a raw table into the immutable normalized table:
// dates are parsed day-first, money cells become decimals and the Flag
// column is reduced to FAFEM/RECAP. Only a missing required column is an
// error; bad cells are absorbed and counted in the returned stats.
func Normalize(raw *RawTable) (*core.Table, NormalizeStats, error) {
	schema, err := ResolveSchema(raw.Header)
	if err != nil {
		return nil, NormalizeStats{}, err
	}

	stats := NormalizeStats{
		Rows:                len(raw.Rows),
		MissingMoneyColumns: schema.MissingMoneyColumns(),
		FlagColumnPresent:   schema.HasFlag(),
	}
	records := make([]core.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		dateCell := cellAt(row, schema.Date)
		date := core.DateCell(dateCell)
		if date.IsEmpty() {
			stats.InvalidDates++
		}

		flag := core.FlagRECAP
		if schema.HasFlag() {
			flag = core.DeriveFlag(cellAt(row, schema.Flag))
		}

		rec := core.Record{
			Date: date,
			Team: cellAt(row, schema.Team).String(),
			Role: cellAt(row, schema.Role).String(),
			Flag: flag,
		}
		rec.Total = money(row, schema.Total, &stats)
		rec.HS1 = money(row, schema.HS1, &stats)
		rec.HS2 = money(row, schema.HS2, &stats)
		rec.HS3 = money(row, schema.HS3, &stats)
		records = append(records, rec)
	}
	return core.NewTable(records), stats, nil
}

// LoadTable loads and normalizes semicolon-delimited text in one step.
func LoadTable(r io.Reader) (*core.Table, NormalizeStats, error) {
	raw, err := Load(r)
	if err != nil {
		return nil, NormalizeStats{}, err
	}
	return Normalize(raw)
}

func money(row []core.Cell, idx int, stats *NormalizeStats) decimal.Decimal {
	c := cellAt(row, idx)
	d, ok := core.TryParseCurrency(c)
	if !ok && !c.IsNull() {
		stats.InvalidMoneyCells++
	}
	return d
}

func cellAt(row []core.Cell, idx int) core.Cell {
	if idx < 0 || idx >= len(row) {
		return core.NullCell()
	}
	return row[idx]
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
