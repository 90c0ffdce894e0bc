// Package http serves the revenue dashboard and its JSON API.
//
// This file turns dashboard query strings into report criteria.
package http

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"receita/internal/core"
	"receita/internal/report"
)

// Query parameter names accepted by the dashboard and the API.
const (
	ParamDateFrom = "date_from"
	ParamDateTo   = "date_to"
	ParamTeam     = "team"
	ParamTeamsSet = "teams_set"
	ParamRole     = "role"
	ParamFlag     = "flag"
)

const maxLabelLength = 200

var labelPolicy = bluemonday.StrictPolicy()

// ErrInvalidLabel marks a team or role name that is not in the dataset and
// carries markup, control characters or excessive length.
var ErrInvalidLabel = errors.New("invalid label")

// FieldError reports a query parameter that could not be understood.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseCriteria builds the report criteria for a query string. Parameters
// that are absent keep the value from defaults: the date bounds, and the team
// selection unless a team is named or teams_set=1 marks an explicit, possibly
// empty, selection. An empty date parameter removes that bound.
//
// Team and role names listed in opts are used exactly as given, the empty
// name included. Other names match no row; they are kept only when they are
// plain text.
func ParseCriteria(q url.Values, defaults report.Criteria, opts report.FilterOptions) (report.Criteria, error) {
	var errs []error

	from := defaults.DateFrom
	if _, ok := q[ParamDateFrom]; ok {
		d, err := parseDateParam(ParamDateFrom, q.Get(ParamDateFrom))
		if err != nil {
			errs = append(errs, err)
		}
		from = d
	}
	to := defaults.DateTo
	if _, ok := q[ParamDateTo]; ok {
		d, err := parseDateParam(ParamDateTo, q.Get(ParamDateTo))
		if err != nil {
			errs = append(errs, err)
		}
		to = d
	}

	teams := defaults.Teams()
	if _, named := q[ParamTeam]; named || q.Get(ParamTeamsSet) == "1" {
		var err error
		if teams, err = labels(ParamTeam, q[ParamTeam], opts.Teams); err != nil {
			errs = append(errs, err)
		}
	}
	roles, err := labels(ParamRole, q[ParamRole], opts.Roles)
	if err != nil {
		errs = append(errs, err)
	}

	var flags []core.Flag
	for _, v := range q[ParamFlag] {
		if strings.TrimSpace(v) == "" {
			continue
		}
		f, err := core.ParseFlag(v)
		if err != nil {
			errs = append(errs, &FieldError{Field: ParamFlag, Value: v, Err: err})
			continue
		}
		flags = append(flags, f)
	}

	if len(errs) > 0 {
		return report.Criteria{}, errors.Join(errs...)
	}
	return report.NewCriteria(from, to, teams, roles, flags), nil
}

// HasCriteria reports whether q carries any filter parameter.
func HasCriteria(q url.Values) bool {
	for _, name := range []string{ParamDateFrom, ParamDateTo, ParamTeam, ParamTeamsSet, ParamRole, ParamFlag} {
		if _, ok := q[name]; ok {
			return true
		}
	}
	return false
}

func parseDateParam(field, v string) (core.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseFilterDate(v)
	if err != nil {
		return core.Date{}, &FieldError{Field: field, Value: v, Err: err}
	}
	return d, nil
}

func labels(field string, values, known []string) ([]string, error) {
	set := make(map[string]struct{}, len(known))
	for _, k := range known {
		set[k] = struct{}{}
	}
	var errs []error
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := set[v]; !ok {
			if err := checkLabel(v); err != nil {
				errs = append(errs, &FieldError{Field: field, Value: v, Err: err})
				continue
			}
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}

// checkLabel rejects a name that only makes sense as an attack or a typo:
// markup the strict HTML policy would strip, control characters, or more
// than maxLabelLength runes.
func checkLabel(s string) error {
	if utf8.RuneCountInString(s) > maxLabelLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidLabel, maxLabelLength)
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: control characters", ErrInvalidLabel)
	}
	if html.UnescapeString(labelPolicy.Sanitize(s)) != s {
		return fmt.Errorf("%w: markup", ErrInvalidLabel)
	}
	return nil
}
