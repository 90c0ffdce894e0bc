// Package report filters a normalized table and computes the dashboard
// aggregates. Everything here is pure: inputs are never mutated and the
// same table and criteria always give the same report.
package report

import (
	"sort"
	"strconv"
	"strings"

	"receita/internal/core"
)

// Criteria is the immutable filter selection. Build it with NewCriteria.
//
// The team clause is always applied, so an empty team set selects nothing.
// Role and flag clauses are skipped when their sets are empty. The date
// clause is active when either bound is set; an unset bound is open.
type Criteria struct {
	DateFrom core.Date
	DateTo   core.Date
	teams    map[string]struct{}
	roles    map[string]struct{}
	flags    map[core.Flag]struct{}
}

// NewCriteria copies the given selections into a Criteria.
func NewCriteria(from, to core.Date, teams, roles []string, flags []core.Flag) Criteria {
	c := Criteria{
		DateFrom: from,
		DateTo:   to,
		teams:    make(map[string]struct{}, len(teams)),
		roles:    make(map[string]struct{}, len(roles)),
		flags:    make(map[core.Flag]struct{}, len(flags)),
	}
	for _, t := range teams {
		c.teams[t] = struct{}{}
	}
	for _, r := range roles {
		c.roles[r] = struct{}{}
	}
	for _, f := range flags {
		c.flags[f] = struct{}{}
	}
	return c
}

// Teams returns the selected teams sorted.
func (c Criteria) Teams() []string { return sortedKeys(c.teams) }

// Roles returns the selected roles sorted; empty means every role.
func (c Criteria) Roles() []string { return sortedKeys(c.roles) }

// Flags returns the selected flags sorted; empty means both flags.
func (c Criteria) Flags() []core.Flag {
	out := make([]core.Flag, 0, len(c.flags))
	for f := range c.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasTeam reports whether team is part of the selection.
func (c Criteria) HasTeam(team string) bool {
	_, ok := c.teams[team]
	return ok
}

// HasRole reports whether role was explicitly selected.
func (c Criteria) HasRole(role string) bool {
	_, ok := c.roles[role]
	return ok
}

// HasFlag reports whether flag was explicitly selected.
func (c Criteria) HasFlag(flag core.Flag) bool {
	_, ok := c.flags[flag]
	return ok
}

// Key returns a canonical representation usable as a cache key: two criteria
// selecting the same rows by the same clauses share a key.
func (c Criteria) Key() string {
	flags := make([]string, 0, len(c.flags))
	for _, f := range c.Flags() {
		flags = append(flags, string(f))
	}
	var b strings.Builder
	b.WriteString("from=" + c.DateFrom.String())
	b.WriteString("|to=" + c.DateTo.String())
	b.WriteString("|teams=" + joinKey(c.Teams()))
	b.WriteString("|roles=" + joinKey(c.Roles()))
	b.WriteString("|flags=" + joinKey(flags))
	return b.String()
}

// Match reports whether a single record passes every active clause.
func (c Criteria) Match(r core.Record) bool {
	if c.dateActive() {
		if r.Date.IsEmpty() {
			return false
		}
		if !c.DateFrom.IsEmpty() && r.Date.Before(c.DateFrom.Time) {
			return false
		}
		if !c.DateTo.IsEmpty() && r.Date.After(c.DateTo.Time) {
			return false
		}
	}
	if _, ok := c.teams[r.Team]; !ok {
		return false
	}
	if len(c.roles) > 0 {
		if _, ok := c.roles[r.Role]; !ok {
			return false
		}
	}
	if len(c.flags) > 0 {
		if _, ok := c.flags[r.Flag]; !ok {
			return false
		}
	}
	return true
}

func (c Criteria) dateActive() bool {
	return !c.DateFrom.IsEmpty() || !c.DateTo.IsEmpty()
}

// Apply returns a new table with the records matching c, in source order.
func Apply(t *core.Table, c Criteria) *core.Table {
	var out []core.Record
	t.Each(func(r core.Record) {
		if c.Match(r) {
			out = append(out, r)
		}
	})
	return core.NewTable(out)
}

// FilterOptions lists the values a user can pick from.
type FilterOptions struct {
	Teams   []string    // first-appearance order
	Roles   []string    // ascending
	Flags   []core.Flag // always FAFEM, RECAP
	MinDate core.Date
	MaxDate core.Date
}

// Options collects the selectable filter values of a table. Null dates are
// ignored when computing the date bounds.
func Options(t *core.Table) FilterOptions {
	opts := FilterOptions{Flags: core.AllFlags()}
	seenTeams := map[string]struct{}{}
	roles := map[string]struct{}{}
	t.Each(func(r core.Record) {
		if _, ok := seenTeams[r.Team]; !ok {
			seenTeams[r.Team] = struct{}{}
			opts.Teams = append(opts.Teams, r.Team)
		}
		roles[r.Role] = struct{}{}
		if r.Date.IsEmpty() {
			return
		}
		if opts.MinDate.IsEmpty() || r.Date.Before(opts.MinDate.Time) {
			opts.MinDate = r.Date
		}
		if opts.MaxDate.IsEmpty() || r.Date.After(opts.MaxDate.Time) {
			opts.MaxDate = r.Date
		}
	})
	opts.Roles = sortedKeys(roles)
	return opts
}

// DefaultCriteria is the initial selection: the full date range of the table,
// every team, and no role or flag restriction.
func DefaultCriteria(t *core.Table) Criteria {
	opts := Options(t)
	return NewCriteria(opts.MinDate, opts.MaxDate, opts.Teams, nil, nil)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinKey(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ",")
}
