package dto

import (
	"fmt"
	"maps"
	"strings"
)

const (
	FilterOperatorEq    = "eq"
	FilterOperatorNotEq = "not_eq"
	// FilterOperatorRegex is a case-insensitive POSIX match, the search semantics for listings.
	FilterOperatorRegex = "regex"
	// FilterOperatorContains matches rows whose array column holds Value.
	FilterOperatorContains = "contains"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// operatorTemplates render a predicate from the column and the named argument.
var operatorTemplates = map[string]string{
	FilterOperatorEq:       "%[1]s = :%[2]s",
	FilterOperatorNotEq:    "%[1]s != :%[2]s",
	FilterOperatorRegex:    "%[1]s ~* :%[2]s",
	FilterOperatorContains: ":%[2]s = ANY(%[1]s)",
}

// Filter is a single predicate on one column. ArgName defaults to Field and must be
// unique within a FilterGroup.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq regex contains"`
	Table    string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	tmpl, ok := operatorTemplates[f.Operator]
	if !ok {
		return "", map[string]any{}
	}

	column := f.Field
	if f.Table != "" {
		column = f.Table + "." + f.Field
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	return fmt.Sprintf(tmpl, column, argName), map[string]any{argName: f.Value}
}

// FilterGroup joins Filters, or nested groups, with Operator. An empty group matches everything.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
