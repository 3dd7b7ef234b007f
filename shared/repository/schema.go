package repository

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return fmt.Sprintf("%s.%s", c.table, c.name)
	}
}

// schema is the column layout of a row type against its base table.
type schema struct {
	table    string
	columns  []column
	writable []string
	join     string
}

type joiner interface {
	GetJoinQuery() string
}

// describe reads the row layout of T from its struct tags:
//
//	db     result column name, and the insert column for base-table fields
//	table  source table of a joined field
//	column source column when it differs from db, selected AS db
//
// Embedded structs are flattened. T may add joins through GetJoinQuery.
func describe[T any](table string) schema {
	var zero T

	s := schema{table: table}
	s.columns, s.writable = columnsOf(table, reflect.TypeOf(zero))

	if j, ok := any(zero).(joiner); ok {
		s.join = j.GetJoinQuery()
	}

	return s
}

func columnsOf(table string, reflectType reflect.Type) (columns []column, writable []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			cols, insert := columnsOf(table, field.Type)
			columns = append(columns, cols...)
			writable = append(writable, insert...)

			continue
		}

		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
			writable = append(writable, name)
		}

		if col := field.Tag.Get("column"); col != "" {
			columns = append(columns, column{name: col, table: source, alias: name})

			continue
		}

		columns = append(columns, column{name: name, table: source})
	}

	return columns, writable
}

// selectList renders the select expressions, narrowed to only when given.
func (s schema) selectList(only ...string) string {
	exprs := make([]string, 0, len(s.columns))

	for _, col := range s.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

func (s schema) insertQuery() string {
	placeholders := make([]string, len(s.writable))
	for i, col := range s.writable {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(s.writable, ", "), strings.Join(placeholders, ", "))
}
