package http

import (
	"github.com/shopspring/decimal"

	"receita/internal/core"
	"receita/internal/report"
)

// JSON shapes of the API. Amounts are decimal strings, dates YYYY-MM-DD.

type criteriaJSON struct {
	DateFrom string      `json:"date_from,omitempty"`
	DateTo   string      `json:"date_to,omitempty"`
	Teams    []string    `json:"teams"`
	Roles    []string    `json:"roles"`
	Flags    []core.Flag `json:"flags"`
}

type kpiJSON struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Badge string          `json:"badge,omitempty"`
}

type dailyJSON struct {
	Date string          `json:"date"`
	HS1  decimal.Decimal `json:"hs1"`
	HS2  decimal.Decimal `json:"hs2"`
	HS3  decimal.Decimal `json:"hs3"`
}

type seriesJSON struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

type amountJSON struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type shareJSON struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

type reportJSON struct {
	Criteria criteriaJSON `json:"criteria"`
	Rows     int          `json:"rows"`
	CacheHit bool         `json:"cache_hit"`
	Totals   core.Totals  `json:"totals"`
	KPIs     []kpiJSON    `json:"kpis"`
	Daily    []dailyJSON  `json:"daily"`
	Series   []seriesJSON `json:"series"`
	ByTeam   []amountJSON `json:"by_team"`
	TopRoles []amountJSON `json:"top_roles"`
	Split    []shareJSON  `json:"split"`
}

type optionsJSON struct {
	Teams   []string    `json:"teams"`
	Roles   []string    `json:"roles"`
	Flags   []core.Flag `json:"flags"`
	MinDate string      `json:"min_date,omitempty"`
	MaxDate string      `json:"max_date,omitempty"`
}

func newCriteriaJSON(c report.Criteria) criteriaJSON {
	return criteriaJSON{
		DateFrom: c.DateFrom.String(),
		DateTo:   c.DateTo.String(),
		Teams:    c.Teams(),
		Roles:    c.Roles(),
		Flags:    c.Flags(),
	}
}

func newReportJSON(rep report.Report, cacheHit bool) reportJSON {
	out := reportJSON{
		Criteria: newCriteriaJSON(rep.Criteria),
		Rows:     rep.Rows,
		CacheHit: cacheHit,
		Totals:   rep.Totals,
		KPIs:     make([]kpiJSON, 0, len(rep.KPIs)),
		Daily:    make([]dailyJSON, 0, len(rep.Daily)),
		Series:   make([]seriesJSON, 0, len(rep.Series)),
		ByTeam:   amounts(rep.ByTeam),
		TopRoles: amounts(rep.TopRoles),
		Split:    make([]shareJSON, 0, len(rep.Split)),
	}
	for _, k := range rep.KPIs {
		out.KPIs = append(out.KPIs, kpiJSON{Label: k.Label, Value: k.Value, Badge: k.Badge})
	}
	for _, d := range rep.Daily {
		out.Daily = append(out.Daily, dailyJSON{Date: d.Date.String(), HS1: d.HS1, HS2: d.HS2, HS3: d.HS3})
	}
	for _, p := range rep.Series {
		out.Series = append(out.Series, seriesJSON{Date: p.Date.String(), Category: p.Category, Value: p.Value})
	}
	for _, s := range rep.Split {
		out.Split = append(out.Split, shareJSON{Category: s.Category, Amount: s.Amount, Percent: s.Percent})
	}
	return out
}

func newOptionsJSON(o report.FilterOptions) optionsJSON {
	return optionsJSON{
		Teams:   nonNil(o.Teams),
		Roles:   nonNil(o.Roles),
		Flags:   o.Flags,
		MinDate: o.MinDate.String(),
		MaxDate: o.MaxDate.String(),
	}
}

func amounts(in []core.NamedAmount) []amountJSON {
	out := make([]amountJSON, 0, len(in))
	for _, a := range in {
		out = append(out, amountJSON{Name: a.Name, Amount: a.Amount})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Template view models. Money is preformatted; widths are bar percentages.

type kpiView struct {
	Label, Value, Exact, Badge string
}

type barView struct {
	Name, Amount, Exact string
	Width               int
}

type dailyView struct {
	Date          string
	HS1, HS2, HS3 string
	W1, W2, W3    int
}

type shareView struct {
	Category, Amount, Percent string
}

type reportView struct {
	Empty    bool
	Rows     int
	CacheHit bool
	KPIs     []kpiView
	Daily    []dailyView
	ByTeam   []barView
	TopRoles []barView
	Split    []shareView
}

func newReportView(rep report.Report, cacheHit bool) reportView {
	v := reportView{Empty: rep.IsEmpty(), Rows: rep.Rows, CacheHit: cacheHit}
	for _, k := range rep.KPIs {
		v.KPIs = append(v.KPIs, kpiView{
			Label: k.Label,
			Value: core.FormatBRL(k.Value),
			Exact: core.FormatBRLCents(k.Value),
			Badge: k.Badge,
		})
	}
	v.ByTeam = bars(rep.ByTeam)
	v.TopRoles = bars(rep.TopRoles)

	var maxDay decimal.Decimal
	for _, d := range rep.Daily {
		maxDay = decimal.Max(maxDay, d.HS1.Add(d.HS2).Add(d.HS3))
	}
	for _, d := range rep.Daily {
		v.Daily = append(v.Daily, dailyView{
			Date: d.Date.Format("02/01/2006"),
			HS1:  core.FormatBRLCents(d.HS1),
			HS2:  core.FormatBRLCents(d.HS2),
			HS3:  core.FormatBRLCents(d.HS3),
			W1:   barWidth(d.HS1, maxDay),
			W2:   barWidth(d.HS2, maxDay),
			W3:   barWidth(d.HS3, maxDay),
		})
	}
	for _, s := range rep.Split {
		v.Split = append(v.Split, shareView{
			Category: s.Category,
			Amount:   core.FormatBRL(s.Amount),
			Percent:  s.Percent.StringFixed(1) + "%",
		})
	}
	return v
}

func bars(in []core.NamedAmount) []barView {
	var peak decimal.Decimal
	for _, a := range in {
		peak = decimal.Max(peak, a.Amount)
	}
	out := make([]barView, 0, len(in))
	for _, a := range in {
		out = append(out, barView{
			Name:   a.Name,
			Amount: core.FormatBRL(a.Amount),
			Exact:  core.FormatBRLCents(a.Amount),
			Width:  barWidth(a.Amount, peak),
		})
	}
	return out
}

// barWidth scales v against peak to a 0-100 percentage. Non-zero values get at
// least 2 so they stay visible.
func barWidth(v, peak decimal.Decimal) int {
	if !peak.IsPositive() || !v.IsPositive() {
		return 0
	}
	w := int(v.Mul(decimal.NewFromInt(100)).Div(peak).Round(0).IntPart())
	if w < 2 {
		w = 2
	}
	if w > 100 {
		w = 100
	}
	return w
}
