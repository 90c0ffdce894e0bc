package dataset

import "strings"

// Source column names.
const (
	ColDate  = "Data"
	ColTeam  = "Equipe"
	ColRole  = "Função"
	ColTotal = "Total R$"
	ColHS1   = "R$ HS1"
	ColHS2   = "R$ HS2"
	ColHS3   = "R$ HS3"
	ColFlag  = "Flag"
)

// Columns lists every recognized column in canonical order.
var Columns = []string{ColDate, ColTeam, ColRole, ColTotal, ColHS1, ColHS2, ColHS3, ColFlag}

var requiredColumns = []string{ColDate, ColTeam, ColRole}

// Schema maps recognized columns to their header index. Optional columns that
// are absent have index -1 and are defaulted during normalization: money
// columns read as zero, a missing Flag column makes every row RECAP.
type Schema struct {
	Date, Team, Role     int
	Total, HS1, HS2, HS3 int
	Flag                 int
}

// ResolveSchema locates the recognized columns in a header. It fails only
// when a required column is missing.
func ResolveSchema(header []string) (Schema, error) {
	var missing []string
	for _, name := range requiredColumns {
		if indexOf(header, name) == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Schema{}, malformed(1, "missing required columns %s; got headers=%v", strings.Join(missing, ","), header)
	}
	return Schema{
		Date:  indexOf(header, ColDate),
		Team:  indexOf(header, ColTeam),
		Role:  indexOf(header, ColRole),
		Total: indexOf(header, ColTotal),
		HS1:   indexOf(header, ColHS1),
		HS2:   indexOf(header, ColHS2),
		HS3:   indexOf(header, ColHS3),
		Flag:  indexOf(header, ColFlag),
	}, nil
}

// HasFlag reports whether the source carried a Flag column.
func (s Schema) HasFlag() bool { return s.Flag >= 0 }

// MissingMoneyColumns names the money columns synthesized as zero.
func (s Schema) MissingMoneyColumns() []string {
	var out []string
	for name, idx := range map[string]int{ColTotal: s.Total, ColHS1: s.HS1, ColHS2: s.HS2, ColHS3: s.HS3} {
		if idx < 0 {
			out = append(out, name)
		}
	}
	return sortedCopy(out)
}

// HeaderIndex returns the position of column name in header using the same
// matching rules as ResolveSchema, or -1.
func HeaderIndex(header []string, name string) int { return indexOf(header, name) }

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}
