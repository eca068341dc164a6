// Package query compiles entity models and request parameters into
// parameterized PostgreSQL statements.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Join is a LEFT JOIN clause. Lookup rows may be missing, so joins never
// filter the base table.
type Join struct {
	Table     string // quoted, schema qualified
	Alias     string
	Condition string
}

// SelectQuery holds the parts of a SELECT statement. Parts are kept as
// structured values and rendered once by ToSQL.
type SelectQuery struct {
	Columns []Expr
	From    string // quoted table reference
	Alias   string
	Joins   []Join
	Where   []Expr // ANDed
	OrderBy []string
	Limit   int // 0 means no LIMIT
	Offset  int
	// WithOffset renders OFFSET even when it is zero
	WithOffset bool
}

// AddColumn appends a select expression
func (q *SelectQuery) AddColumn(e Expr) *SelectQuery {
	q.Columns = append(q.Columns, e)
	return q
}

// Where appends a predicate; predicates are combined with AND
func (q *SelectQuery) AddWhere(e Expr) *SelectQuery {
	q.Where = append(q.Where, e)
	return q
}

// ToSQL renders the statement and its values in placeholder order
func (q *SelectQuery) ToSQL() (string, []interface{}, error) {
	if len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("select query has no columns")
	}
	if q.From == "" {
		return "", nil, fmt.Errorf("select query has no table")
	}

	var b binder
	b.WriteString("SELECT ")
	if err := b.WriteExprs(q.Columns, ", "); err != nil {
		return "", nil, fmt.Errorf("failed to build select list: %w", err)
	}

	b.WriteString(" FROM ")
	b.WriteString(q.From)
	if q.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(q.Alias)
	}

	for _, join := range q.Joins {
		b.WriteString(fmt.Sprintf(" LEFT JOIN %s AS %s ON %s",
			join.Table,
			join.Alias,
			join.Condition,
		))
	}

	if len(q.Where) > 0 {
		b.WriteString(" WHERE ")
		if err := b.WriteExprs(q.Where, " AND "); err != nil {
			return "", nil, fmt.Errorf("failed to build condition: %w", err)
		}
	}

	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.OrderBy, ", "))
	}

	// LIMIT and OFFSET are integers computed by the compiler, never request text
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 || q.WithOffset {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(q.Offset))
	}

	return b.String(), b.Args(), nil
}
