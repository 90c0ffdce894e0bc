package core

import "github.com/shopspring/decimal"

// Series category labels, named after the source columns they are summed from.
const (
	SeriesHS1 = "R$ HS1"
	SeriesHS2 = "R$ HS2"
	SeriesHS3 = "R$ HS3"
)

// Totals holds the four money sums of a table.
type Totals struct {
	Total decimal.Decimal `json:"total"`
	HS1   decimal.Decimal `json:"hs1"`
	HS2   decimal.Decimal `json:"hs2"`
	HS3   decimal.Decimal `json:"hs3"`
}

// DailyRow is the per-date sum of the three HS columns.
type DailyRow struct {
	Date Date
	HS1  decimal.Decimal
	HS2  decimal.Decimal
	HS3  decimal.Decimal
}

// SeriesPoint is one (date, category, value) entry of the melted daily series.
type SeriesPoint struct {
	Date     Date
	Category string
	Value    decimal.Decimal
}

// NamedAmount represents an amount aggregated by team or role name.
type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

// RevenueShare is one slice of the HS1/HS2/HS3 split.
type RevenueShare struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal // 0-100, two decimals
}
