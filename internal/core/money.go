// Package core provides the revenue domain types and the cell-level
// normalization rules applied to every source row.
//
// This file contains the currency parsing used for the "Total R$" and
// "R$ HSn" columns and the BRL formatting used by the dashboard.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// ParseCurrency converts a raw money cell to a non-negative decimal amount.
//
// Numeric cells are returned as-is. Text cells are read in pt-BR notation:
// the "R$" symbol and surrounding whitespace are stripped, "." thousands
// separators are removed and the "," decimal separator becomes ".".
// Parsing never fails: anything unparseable, non-finite or negative yields 0.
//
// Examples:
//
//	ParseCurrency(TextCell("R$ 1.234,56")) -> 1234.56
//	ParseCurrency(TextCell(""))           -> 0
//	ParseCurrency(NullCell())             -> 0
//	ParseCurrency(NumberCell(42))         -> 42
func ParseCurrency(c Cell) decimal.Decimal {
	d, _ := TryParseCurrency(c)
	return d
}

// TryParseCurrency is ParseCurrency that also reports whether the cell held a
// readable amount. Null, non-finite, negative and malformed cells report false
// and yield 0.
func TryParseCurrency(c Cell) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch c.Kind() {
	case CellNumber:
		f, ok := c.Number()
		if !ok {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(f)
	case CellText:
		parsed, ok := parseCurrencyText(c.String())
		if !ok {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseCurrencyString is ParseCurrency for a text value.
func ParseCurrencyString(s string) decimal.Decimal {
	return ParseCurrency(TextCell(s))
}

func parseCurrencyText(s string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, currencySymbol, ""))
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	// Guard against exponents that no real amount would carry.
	if f, _ := d.Float64(); math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return d, true
}

// FormatBRL renders an amount as whole reais with "." thousands, e.g. "R$ 1.235".
func FormatBRL(d decimal.Decimal) string {
	return currencySymbol + " " + groupThousands(d.Round(0).StringFixed(0))
}

// FormatBRLCents renders an amount with centavos, e.g. "R$ 1.234,56".
func FormatBRLCents(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return currencySymbol + " " + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
