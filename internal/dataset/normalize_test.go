package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"receita/internal/core"
)

func TestNormalizeTwoRowScenario(t *testing.T) {
	tbl, stats, err := LoadTable(strings.NewReader(header +
		"01/01/2024;A;X;R$ 100,00;R$ 50,00;R$ 30,00;R$ 20,00;FAFEM\n" +
		"02/01/2024;B;Y;R$ 200,00;R$ 0,00;R$ 0,00;R$ 200,00;\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Rows != 2 || stats.InvalidDates != 0 || stats.InvalidMoneyCells != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	rows := tbl.Rows()
	if rows[0].Flag != core.FlagFAFEM || rows[1].Flag != core.FlagRECAP {
		t.Fatalf("flags = %s,%s", rows[0].Flag, rows[1].Flag)
	}
	if !rows[0].Total.Equal(decimal.NewFromInt(100)) || !rows[1].HS3.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("money not parsed: %+v", rows)
	}
	if !rows[0].Date.Equal(core.NewDate(2024, 1, 1).Time) {
		t.Fatalf("date = %v", rows[0].Date)
	}
}

func TestNormalizeOptionalColumns(t *testing.T) {
	tbl, stats, err := LoadTable(strings.NewReader("Data;Equipe;Função;Total R$\n01/01/2024;A;X;R$ 10,00\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.FlagColumnPresent {
		t.Fatalf("flag column reported present")
	}
	want := []string{ColHS1, ColHS2, ColHS3}
	if strings.Join(stats.MissingMoneyColumns, "|") != strings.Join(want, "|") {
		t.Fatalf("missing money columns = %v", stats.MissingMoneyColumns)
	}
	r := tbl.Rows()[0]
	if r.Flag != core.FlagRECAP {
		t.Fatalf("missing Flag column should give RECAP, got %s", r.Flag)
	}
	if !r.HS1.IsZero() || !r.HS2.IsZero() || !r.HS3.IsZero() {
		t.Fatalf("missing money columns should be zero: %+v", r)
	}
}

func TestNormalizeBadCellsAreAbsorbed(t *testing.T) {
	tbl, stats, err := LoadTable(strings.NewReader(header +
		"ontem;A;X;abc;-5;;R$ 1,00;fafem\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.InvalidDates != 1 {
		t.Fatalf("invalid dates = %d", stats.InvalidDates)
	}
	// "abc" and "-5"; the empty HS2 cell is null, not invalid
	if stats.InvalidMoneyCells != 2 {
		t.Fatalf("invalid money cells = %d", stats.InvalidMoneyCells)
	}
	r := tbl.Rows()[0]
	if !r.Date.IsEmpty() {
		t.Fatalf("row should survive with a null date")
	}
	if !r.Total.IsZero() || !r.HS1.IsZero() || !r.HS3.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected amounts %+v", r)
	}
	if r.Flag != core.FlagFAFEM {
		t.Fatalf("flag = %s", r.Flag)
	}
}

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	_, _, err := LoadTable(strings.NewReader("Data;Equipe;Total R$\n01/01/2024;A;1\n"))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if !strings.Contains(err.Error(), ColRole) {
		t.Fatalf("error should name the missing column: %v", err)
	}
}

func TestNormalizeHeaderCaseInsensitive(t *testing.T) {
	tbl, _, err := LoadTable(strings.NewReader(" data ;EQUIPE;função;flag\n01/01/2024;A;X;FAFEM\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows()[0].Flag != core.FlagFAFEM {
		t.Fatalf("unexpected table %+v", tbl.Rows())
	}
}

func TestEmbeddedDataset(t *testing.T) {
	raw, err := Embedded()
	if err != nil {
		t.Fatalf("embedded: %v", err)
	}
	tbl, stats, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if tbl.Len() != 40 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	if stats.InvalidDates != 1 || stats.InvalidMoneyCells != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
