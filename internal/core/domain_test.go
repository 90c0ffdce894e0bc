package core

import (
	"errors"
	"testing"
)

func TestDeriveFlag(t *testing.T) {
	cases := []struct {
		in   Cell
		want Flag
	}{
		{TextCell("FAFEM"), FlagFAFEM},
		{TextCell(" fafem "), FlagFAFEM},
		{TextCell("Fafem\t"), FlagFAFEM},
		{TextCell("fafem2"), FlagRECAP},
		{TextCell("FA FEM"), FlagRECAP},
		{TextCell("RECAP"), FlagRECAP},
		{TextCell("outro"), FlagRECAP},
		{TextCell(""), FlagRECAP},
		{NullCell(), FlagRECAP},
		{NumberCell(1), FlagRECAP},
	}
	for i, tc := range cases {
		if got := DeriveFlag(tc.in); got != tc.want {
			t.Fatalf("case %d: DeriveFlag(%q) = %s, want %s", i, tc.in.String(), got, tc.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	if f, err := ParseFlag(" recap "); err != nil || f != FlagRECAP {
		t.Fatalf("expected RECAP, got %q err=%v", f, err)
	}
	if _, err := ParseFlag("other"); !errors.Is(err, ErrInvalidFlag) {
		t.Fatalf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestParseDayFirst(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"01/02/2024", NewDate(2024, 2, 1), true}, // day first when ambiguous
		{"1/2/2024", NewDate(2024, 2, 1), true},
		{"31/12/2023", NewDate(2023, 12, 31), true},
		{"15-03-2024", NewDate(2024, 3, 15), true},
		{"15.03.2024", NewDate(2024, 3, 15), true},
		{"05/06/24", NewDate(2024, 6, 5), true},
		{"02/01/2024 08:30", NewDate(2024, 1, 2), true},
		{"2024-01-02", NewDate(2024, 1, 2), true},
		{" 2024-01-02 ", NewDate(2024, 1, 2), true},
		{"32/01/2024", Date{}, false},
		{"13/13/2024", Date{}, false},
		{"ontem", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDayFirst(tc.in)
		if ok != tc.ok || !got.Equal(tc.want.Time) {
			t.Errorf("ParseDayFirst(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDateCellOnlyParsesText(t *testing.T) {
	if d := DateCell(NumberCell(45000)); !d.IsEmpty() {
		t.Fatalf("number cell should give null date, got %v", d)
	}
	if d := DateCell(TextCell("03/04/2024")); !d.Equal(NewDate(2024, 4, 3).Time) {
		t.Fatalf("unexpected date %v", d)
	}
}

func TestTableRowsIsACopy(t *testing.T) {
	tbl := NewTable([]Record{{Team: "A"}})
	rows := tbl.Rows()
	rows[0].Team = "changed"
	if tbl.Rows()[0].Team != "A" {
		t.Fatal("table mutated through Rows()")
	}
	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.Rows() != nil {
		t.Fatal("nil table should behave as empty")
	}
}

func TestValueCell(t *testing.T) {
	if ValueCell(nil).Kind() != CellNull {
		t.Fatal("nil should be null")
	}
	if ValueCell("x").Kind() != CellText {
		t.Fatal("string should be text")
	}
	if f, ok := ValueCell(int64(7)).Number(); !ok || f != 7 {
		t.Fatalf("int64 should be number, got %v %v", f, ok)
	}
	if ValueCell(true).Kind() != CellOther {
		t.Fatal("bool should be other")
	}
}
