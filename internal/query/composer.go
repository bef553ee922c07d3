// Package query turns listing parameters into parameterized SQL and runs the
// row and count statements for one page.
//
// Column names that end up in SQL text come only from Entity definitions and
// predicate constructors called with code-side constants. Caller input is
// either a lookup key (sort column) or a bound argument.
package query

import (
	"strings"
)

// Entity describes a listable table.
type Entity struct {
	Table   string
	Columns []string
	// Sortable maps lower-case wire names to columns.
	Sortable map[string]string
	// Fallback is the primary key column, used for rejected sort keys and as
	// the ordering tiebreaker.
	Fallback string
}

// Statement is SQL text plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

type op int

const (
	opEq op = iota + 1
	opEqFold
	opContains
	opAtLeast
	opAtMost
)

// Predicate is one bound WHERE clause. The zero value is "no constraint".
type Predicate struct {
	column string
	op     op
	value  any
}

func (p Predicate) IsZero() bool { return p.op == 0 }

type Number interface {
	~int | ~int64 | ~float64
}

// Eq matches column = *v. Nil v yields no predicate.
func Eq[T Number](column string, v *T) Predicate {
	if v == nil {
		return Predicate{}
	}
	return Predicate{column: column, op: opEq, value: *v}
}

// EqFold matches column case-insensitively. Blank v yields no predicate.
func EqFold(column, v string) Predicate {
	v = strings.TrimSpace(v)
	if v == "" {
		return Predicate{}
	}
	return Predicate{column: column, op: opEqFold, value: strings.ToLower(v)}
}

// Contains is a case-insensitive substring match. Blank v yields no predicate.
func Contains(column, v string) Predicate {
	v = strings.TrimSpace(v)
	if v == "" {
		return Predicate{}
	}
	return Predicate{column: column, op: opContains, value: "%" + escapeLike(strings.ToLower(v)) + "%"}
}

// AtLeast matches column >= *v.
func AtLeast[T Number](column string, v *T) Predicate {
	if v == nil {
		return Predicate{}
	}
	return Predicate{column: column, op: opAtLeast, value: *v}
}

// AtMost matches column <= *v.
func AtMost[T Number](column string, v *T) Predicate {
	if v == nil {
		return Predicate{}
	}
	return Predicate{column: column, op: opAtMost, value: *v}
}

func (p Predicate) clause() string {
	switch p.op {
	case opEq:
		return p.column + " = ?"
	case opEqFold:
		return "LOWER(" + p.column + ") = ?"
	case opContains:
		return "LOWER(" + p.column + ") LIKE ?"
	case opAtLeast:
		return p.column + " >= ?"
	case opAtMost:
		return p.column + " <= ?"
	}
	return ""
}

// escapeLike escapes LIKE wildcards with MySQL's default escape character.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ResolveSort maps s onto the allowlist. Unknown columns are replaced by the
// fallback column, never passed through.
func (e Entity) ResolveSort(s SortSpec) (string, Direction) {
	column, ok := e.Sortable[strings.ToLower(strings.TrimSpace(s.Column))]
	if !ok || column == "" {
		column = e.Fallback
	}
	if s.Direction == Desc {
		return column, Desc
	}
	return column, Asc
}

// Compose builds the row statement and the count statement for one page.
// Both share the same predicates; only the row statement is sorted and
// limited.
func Compose(e Entity, preds []Predicate, sort SortSpec, page PageRequest) (Statement, Statement, error) {
	if err := page.Validate(); err != nil {
		return Statement{}, Statement{}, err
	}

	var where strings.Builder
	where.WriteString(" WHERE 1=1")
	args := make([]any, 0, len(preds)+2)
	for _, p := range preds {
		if p.IsZero() {
			continue
		}
		where.WriteString(" AND ")
		where.WriteString(p.clause())
		args = append(args, p.value)
	}

	column, dir := e.ResolveSort(sort)
	order := " ORDER BY " + column + " " + string(dir)
	if column != e.Fallback {
		order += ", " + e.Fallback + " ASC"
	}

	rowArgs := make([]any, 0, len(args)+2)
	rowArgs = append(rowArgs, args...)
	rowArgs = append(rowArgs, page.Size, page.Offset())

	rows := Statement{
		SQL:  "SELECT " + strings.Join(e.Columns, ", ") + " FROM " + e.Table + where.String() + order + " LIMIT ? OFFSET ?",
		Args: rowArgs,
	}
	count := Statement{
		SQL:  "SELECT COUNT(*) FROM " + e.Table + where.String(),
		Args: args,
	}
	return rows, count, nil
}
