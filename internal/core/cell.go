package core

import (
	"fmt"
	"math"
	"strings"
)

// CellKind tags the representation a raw source cell arrived in.
type CellKind int

const (
	CellNull CellKind = iota
	CellText
	CellNumber
	CellOther
)

// Cell is a raw source value. The kind is decided once, when the row is read,
// so that parsing code never has to guess the dynamic type of a value.
type Cell struct {
	kind  CellKind
	text  string
	num   float64
	other any
}

func NullCell() Cell { return Cell{kind: CellNull} }

func TextCell(s string) Cell { return Cell{kind: CellText, text: s} }

func NumberCell(f float64) Cell { return Cell{kind: CellNumber, num: f} }

// ValueCell maps an arbitrary Go value, as returned by the Sheets API or a
// database driver, to a Cell.
func ValueCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return NullCell()
	case Cell:
		return x
	case string:
		return TextCell(x)
	case []byte:
		return TextCell(string(x))
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case uint:
		return NumberCell(float64(x))
	case uint32:
		return NumberCell(float64(x))
	case uint64:
		return NumberCell(float64(x))
	default:
		return Cell{kind: CellOther, other: v}
	}
}

func (c Cell) Kind() CellKind { return c.kind }

func (c Cell) IsNull() bool { return c.kind == CellNull }

// Number returns the numeric payload and whether the cell is a finite number.
func (c Cell) Number() (float64, bool) {
	if c.kind != CellNumber || math.IsNaN(c.num) || math.IsInf(c.num, 0) {
		return 0, false
	}
	return c.num, true
}

// String renders the cell as text. Null cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return strings.TrimSpace(fmt.Sprint(c.num))
	case CellOther:
		return fmt.Sprint(c.other)
	default:
		return ""
	}
}

// Value returns the cell as a plain Go value: nil, string, float64 or the
// original value of an other cell.
func (c Cell) Value() any {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return c.num
	case CellOther:
		return c.other
	default:
		return nil
	}
}
