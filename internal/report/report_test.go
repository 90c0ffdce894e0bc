package report

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"receita/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(date core.Date, team, role, total string, flag core.Flag) core.Record {
	return core.Record{Date: date, Team: team, Role: role, Total: dec(total), Flag: flag}
}

func scenarioTable() *core.Table {
	return core.NewTable([]core.Record{
		{Date: core.NewDate(2024, 1, 1), Team: "A", Role: "X", Total: dec("100"), HS1: dec("50"), HS2: dec("30"), HS3: dec("20"), Flag: core.FlagFAFEM},
		{Date: core.NewDate(2024, 1, 2), Team: "B", Role: "Y", Total: dec("200"), HS1: dec("0"), HS2: dec("0"), HS3: dec("200"), Flag: core.FlagRECAP},
	})
}

func TestEndToEndScenario(t *testing.T) {
	tbl := scenarioTable()
	c := NewCriteria(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 2), []string{"A", "B"}, nil, nil)

	filtered := Apply(tbl, c)
	if filtered.Len() != 2 {
		t.Fatalf("expected both rows, got %d", filtered.Len())
	}
	got := ByTeam(filtered)
	if len(got) != 2 || got[0].Name != "B" || !got[0].Amount.Equal(dec("200")) || got[1].Name != "A" || !got[1].Amount.Equal(dec("100")) {
		t.Fatalf("ByTeam = %+v", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	tbl := scenarioTable()
	criteria := []Criteria{
		NewCriteria(core.Date{}, core.Date{}, []string{"A", "B"}, nil, nil),
		NewCriteria(core.NewDate(2024, 1, 2), core.Date{}, []string{"A", "B"}, nil, nil),
		NewCriteria(core.Date{}, core.Date{}, []string{"A", "B"}, []string{"X"}, nil),
		NewCriteria(core.Date{}, core.Date{}, []string{"B"}, nil, []core.Flag{core.FlagFAFEM}),
	}
	for i, c := range criteria {
		once := Apply(tbl, c)
		twice := Apply(once, c)
		if !reflect.DeepEqual(once.Rows(), twice.Rows()) {
			t.Fatalf("criteria %d: not idempotent", i)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tbl := scenarioTable()
	before := tbl.Rows()
	_ = Apply(tbl, NewCriteria(core.Date{}, core.Date{}, []string{"A"}, nil, nil))
	if !reflect.DeepEqual(before, tbl.Rows()) {
		t.Fatalf("input table changed")
	}
}

func TestApplyClauses(t *testing.T) {
	tbl := core.NewTable([]core.Record{
		rec(core.NewDate(2024, 1, 1), "A", "X", "1", core.FlagFAFEM),
		rec(core.NewDate(2024, 1, 5), "A", "Y", "2", core.FlagRECAP),
		rec(core.NewDate(2024, 2, 1), "B", "X", "3", core.FlagRECAP),
		rec(core.Date{}, "A", "X", "4", core.FlagRECAP),
	})
	all := []string{"A", "B"}
	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no date clause keeps null dates", NewCriteria(core.Date{}, core.Date{}, all, nil, nil), []string{"1", "2", "3", "4"}},
		{"empty roles pass every role", NewCriteria(core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31), all, []string{}, nil), []string{"1", "2", "3"}},
		{"inclusive bounds", NewCriteria(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 5), all, nil, nil), []string{"1", "2"}},
		{"open lower bound", NewCriteria(core.Date{}, core.NewDate(2024, 1, 1), all, nil, nil), []string{"1"}},
		{"open upper bound", NewCriteria(core.NewDate(2024, 1, 5), core.Date{}, all, nil, nil), []string{"2", "3"}},
		{"empty teams select nothing", NewCriteria(core.Date{}, core.Date{}, nil, nil, nil), nil},
		{"team subset", NewCriteria(core.Date{}, core.Date{}, []string{"B"}, nil, nil), []string{"3"}},
		{"role subset", NewCriteria(core.Date{}, core.Date{}, all, []string{"Y"}, nil), []string{"2"}},
		{"flag subset", NewCriteria(core.Date{}, core.Date{}, all, nil, []core.Flag{core.FlagFAFEM}), []string{"1"}},
		{"both flags", NewCriteria(core.Date{}, core.Date{}, all, nil, core.AllFlags()), []string{"1", "2", "3", "4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			Apply(tbl, tc.c).Each(func(r core.Record) { got = append(got, r.Total.String()) })
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTotalsIsAPureSum(t *testing.T) {
	tot := Totals(scenarioTable())
	if !tot.Total.Equal(dec("300")) || !tot.HS1.Equal(dec("50")) || !tot.HS2.Equal(dec("30")) || !tot.HS3.Equal(dec("220")) {
		t.Fatalf("totals = %+v", tot)
	}
}

func TestTopRolesKeepsLargestAscending(t *testing.T) {
	var records []core.Record
	for i := 1; i <= 10; i++ {
		records = append(records, rec(core.NewDate(2024, 1, i), "A", fmt.Sprintf("R%02d", i), fmt.Sprint(i*10), core.FlagRECAP))
	}
	got := TopRoles(core.NewTable(records), TopRoleCount)
	if len(got) != 8 {
		t.Fatalf("len = %d", len(got))
	}
	for i, na := range got {
		want := dec(fmt.Sprint((i + 3) * 10))
		if !na.Amount.Equal(want) {
			t.Fatalf("position %d: %v, want %v", i, na.Amount, want)
		}
	}
}

func TestTopRolesFewerThanN(t *testing.T) {
	got := TopRoles(scenarioTable(), TopRoleCount)
	if len(got) != 2 || got[0].Name != "X" || got[1].Name != "Y" {
		t.Fatalf("TopRoles = %+v", got)
	}
}

func TestDailyAndLongSeries(t *testing.T) {
	tbl := core.NewTable([]core.Record{
		{Date: core.NewDate(2024, 1, 2), HS1: dec("1"), HS2: dec("2"), HS3: dec("3")},
		{Date: core.NewDate(2024, 1, 1), HS1: dec("10")},
		{Date: core.NewDate(2024, 1, 2), HS1: dec("1")},
		{HS1: dec("99")},
	})
	daily := Daily(tbl)
	if len(daily) != 2 {
		t.Fatalf("daily rows = %d", len(daily))
	}
	if daily[0].Date.String() != "2024-01-01" || !daily[1].HS1.Equal(dec("2")) {
		t.Fatalf("daily = %+v", daily)
	}

	long := DailyLong(tbl)
	if len(long) != 6 {
		t.Fatalf("series points = %d", len(long))
	}
	wantCats := []string{core.SeriesHS1, core.SeriesHS1, core.SeriesHS2, core.SeriesHS2, core.SeriesHS3, core.SeriesHS3}
	for i, p := range long {
		if p.Category != wantCats[i] {
			t.Fatalf("point %d category %q, want %q", i, p.Category, wantCats[i])
		}
	}
	if !long[5].Value.Equal(dec("3")) {
		t.Fatalf("last HS3 point = %v", long[5].Value)
	}
}

func TestEmptyTableAggregates(t *testing.T) {
	empty := core.NewTable(nil)
	r := Build(empty, NewCriteria(core.Date{}, core.Date{}, []string{"A"}, nil, nil))
	if !r.IsEmpty() || !r.Totals.Total.IsZero() {
		t.Fatalf("unexpected report %+v", r)
	}
	if len(r.Daily) != 0 || len(r.Series) != 0 || len(r.ByTeam) != 0 || len(r.TopRoles) != 0 {
		t.Fatalf("aggregates should be empty: %+v", r)
	}
	for _, s := range r.Split {
		if !s.Percent.IsZero() {
			t.Fatalf("split percent should be zero: %+v", s)
		}
	}
	for _, k := range r.KPIs {
		if k.Badge != "" {
			t.Fatalf("no badge expected on zero totals: %+v", k)
		}
	}
}

func TestBuildKPIsAndSplit(t *testing.T) {
	r := Build(scenarioTable(), DefaultCriteria(scenarioTable()))
	if r.Rows != 2 {
		t.Fatalf("rows = %d", r.Rows)
	}
	if r.KPIs[0].Label != "Faturamento Total" || r.KPIs[2].Badge != BadgeExtra || r.KPIs[3].Badge != BadgeAltoLucro {
		t.Fatalf("kpis = %+v", r.KPIs)
	}
	// 50/300, 30/300, 220/300
	want := []string{"16.67", "10", "73.33"}
	for i, s := range r.Split {
		if !s.Percent.Equal(dec(want[i])) {
			t.Fatalf("split %s = %v, want %s", s.Category, s.Percent, want[i])
		}
	}
}

func TestOptionsAndDefaults(t *testing.T) {
	tbl := core.NewTable([]core.Record{
		rec(core.NewDate(2024, 3, 1), "Zulu", "b", "1", core.FlagRECAP),
		rec(core.Date{}, "Alfa", "a", "1", core.FlagRECAP),
		rec(core.NewDate(2024, 1, 1), "Zulu", "c", "1", core.FlagRECAP),
	})
	opts := Options(tbl)
	if !reflect.DeepEqual(opts.Teams, []string{"Zulu", "Alfa"}) {
		t.Fatalf("teams = %v", opts.Teams)
	}
	if !reflect.DeepEqual(opts.Roles, []string{"a", "b", "c"}) {
		t.Fatalf("roles = %v", opts.Roles)
	}
	if opts.MinDate.String() != "2024-01-01" || opts.MaxDate.String() != "2024-03-01" {
		t.Fatalf("bounds = %v..%v", opts.MinDate, opts.MaxDate)
	}

	def := DefaultCriteria(tbl)
	if len(def.Roles()) != 0 || len(def.Flags()) != 0 || len(def.Teams()) != 2 {
		t.Fatalf("default criteria = %s", def.Key())
	}
	// the null-date row fails the default date clause
	if Apply(tbl, def).Len() != 2 {
		t.Fatalf("default criteria should drop the null-date row")
	}
}

func TestCriteriaKeyIsCanonical(t *testing.T) {
	a := NewCriteria(core.NewDate(2024, 1, 1), core.Date{}, []string{"B", "A"}, []string{"y", "x"}, []core.Flag{core.FlagRECAP, core.FlagFAFEM})
	b := NewCriteria(core.NewDate(2024, 1, 1), core.Date{}, []string{"A", "B", "A"}, []string{"x", "y"}, []core.Flag{core.FlagFAFEM, core.FlagRECAP})
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	c := NewCriteria(core.NewDate(2024, 1, 1), core.Date{}, []string{"A,B"}, nil, nil)
	if a.Key() == c.Key() {
		t.Fatalf("distinct selections share a key")
	}
}
