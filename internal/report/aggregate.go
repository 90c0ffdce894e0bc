package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"receita/internal/core"
)

// TopRoleCount is how many roles TopRoles keeps by default.
const TopRoleCount = 8

var hundred = decimal.NewFromInt(100)

// Totals sums the four money columns. An empty table gives zero totals.
func Totals(t *core.Table) core.Totals {
	var out core.Totals
	t.Each(func(r core.Record) {
		out.Total = out.Total.Add(r.Total)
		out.HS1 = out.HS1.Add(r.HS1)
		out.HS2 = out.HS2.Add(r.HS2)
		out.HS3 = out.HS3.Add(r.HS3)
	})
	return out
}

// Daily sums HS1, HS2 and HS3 per date, one row per distinct date in
// ascending order. Records with a null date are not part of any day.
func Daily(t *core.Table) []core.DailyRow {
	byDay := map[time.Time]*core.DailyRow{}
	t.Each(func(r core.Record) {
		if r.Date.IsEmpty() {
			return
		}
		row, ok := byDay[r.Date.Time]
		if !ok {
			row = &core.DailyRow{Date: r.Date}
			byDay[r.Date.Time] = row
		}
		row.HS1 = row.HS1.Add(r.HS1)
		row.HS2 = row.HS2.Add(r.HS2)
		row.HS3 = row.HS3.Add(r.HS3)
	})

	out := make([]core.DailyRow, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

// DailyLong melts the daily sums into (date, category, value) points: every
// HS1 point by date, then HS2, then HS3.
func DailyLong(t *core.Table) []core.SeriesPoint {
	daily := Daily(t)
	out := make([]core.SeriesPoint, 0, 3*len(daily))
	for _, series := range []struct {
		label string
		value func(core.DailyRow) decimal.Decimal
	}{
		{core.SeriesHS1, func(d core.DailyRow) decimal.Decimal { return d.HS1 }},
		{core.SeriesHS2, func(d core.DailyRow) decimal.Decimal { return d.HS2 }},
		{core.SeriesHS3, func(d core.DailyRow) decimal.Decimal { return d.HS3 }},
	} {
		for _, d := range daily {
			out = append(out, core.SeriesPoint{Date: d.Date, Category: series.label, Value: series.value(d)})
		}
	}
	return out
}

// ByTeam sums Total per team, largest first. Equal sums are ordered by team name.
func ByTeam(t *core.Table) []core.NamedAmount {
	out := sumBy(t, func(r core.Record) string { return r.Team })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out
}

// TopRoles sums Total per role, sorts ascending and keeps the last n entries,
// i.e. the n largest, still in ascending order. Equal sums are ordered by role
// name.
func TopRoles(t *core.Table, n int) []core.NamedAmount {
	out := sumBy(t, func(r core.Record) string { return r.Role })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.LessThan(out[j].Amount) })
	if n >= 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// RevenueSplit returns the HS1/HS2/HS3 shares of their combined sum. When the
// combined sum is zero every percent is zero.
func RevenueSplit(totals core.Totals) []core.RevenueShare {
	parts := []core.RevenueShare{
		{Category: "HS1", Amount: totals.HS1},
		{Category: "HS2", Amount: totals.HS2},
		{Category: "HS3", Amount: totals.HS3},
	}
	sum := totals.HS1.Add(totals.HS2).Add(totals.HS3)
	for i := range parts {
		if sum.IsZero() {
			parts[i].Percent = decimal.Zero
			continue
		}
		parts[i].Percent = parts[i].Amount.Mul(hundred).DivRound(sum, 2)
	}
	return parts
}

// sumBy groups by key and returns the groups ordered by key.
func sumBy(t *core.Table, key func(core.Record) string) []core.NamedAmount {
	sums := map[string]decimal.Decimal{}
	t.Each(func(r core.Record) {
		k := key(r)
		sums[k] = sums[k].Add(r.Total)
	})
	out := make([]core.NamedAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, core.NamedAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
