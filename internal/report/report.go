package report

import (
	"github.com/shopspring/decimal"

	"receita/internal/core"
)

// KPI badges shown next to a headline total when it is positive.
const (
	BadgeExtra     = "Extra"
	BadgeAltoLucro = "Alto Lucro"
)

// KPI is one headline figure of the dashboard.
type KPI struct {
	Label string
	Value decimal.Decimal
	Badge string
}

// Report is everything the dashboard renders for one filter selection.
type Report struct {
	Criteria Criteria
	Rows     int
	Totals   core.Totals
	KPIs     []KPI
	Daily    []core.DailyRow
	Series   []core.SeriesPoint
	ByTeam   []core.NamedAmount
	TopRoles []core.NamedAmount
	Split    []core.RevenueShare
}

// Build filters t with c and computes every aggregate over the result.
func Build(t *core.Table, c Criteria) Report {
	filtered := Apply(t, c)
	totals := Totals(filtered)
	return Report{
		Criteria: c,
		Rows:     filtered.Len(),
		Totals:   totals,
		KPIs:     KPIs(totals),
		Daily:    Daily(filtered),
		Series:   DailyLong(filtered),
		ByTeam:   ByTeam(filtered),
		TopRoles: TopRoles(filtered, TopRoleCount),
		Split:    RevenueSplit(totals),
	}
}

// KPIs labels the four totals. HS2 carries the "Extra" badge and HS3 the
// "Alto Lucro" badge when positive.
func KPIs(totals core.Totals) []KPI {
	kpis := []KPI{
		{Label: "Faturamento Total", Value: totals.Total},
		{Label: "HS1", Value: totals.HS1},
		{Label: "HS2", Value: totals.HS2},
		{Label: "HS3", Value: totals.HS3},
	}
	if totals.HS2.IsPositive() {
		kpis[2].Badge = BadgeExtra
	}
	if totals.HS3.IsPositive() {
		kpis[3].Badge = BadgeAltoLucro
	}
	return kpis
}

// IsEmpty reports whether no record passed the filter.
func (r Report) IsEmpty() bool { return r.Rows == 0 }
