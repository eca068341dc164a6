package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a SQL fragment whose "?" markers are bound, in order, to Args.
// Fragments stay unnumbered until the statement is rendered, so parts can be
// assembled in any order without breaking placeholder numbering.
type Expr struct {
	SQL  string
	Args []interface{}
}

// Raw returns a fragment without bound values
func Raw(sql string) Expr {
	return Expr{SQL: sql}
}

// Bind returns a fragment with its bound values
func Bind(sql string, args ...interface{}) Expr {
	return Expr{SQL: sql, Args: args}
}

// JoinExprs concatenates fragments with sep, keeping their values in order
func JoinExprs(exprs []Expr, sep string) Expr {
	parts := make([]string, len(exprs))
	var args []interface{}
	for i, e := range exprs {
		parts[i] = e.SQL
		args = append(args, e.Args...)
	}
	return Expr{SQL: strings.Join(parts, sep), Args: args}
}

// Wrap surrounds a fragment with prefix and suffix
func (e Expr) Wrap(prefix, suffix string) Expr {
	return Expr{SQL: prefix + e.SQL + suffix, Args: e.Args}
}

// placeholders returns "?" markers for n values separated by commas
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// binder numbers "?" markers as $1, $2, ... across every fragment written to it
type binder struct {
	sql  strings.Builder
	args []interface{}
}

// WriteString appends literal SQL
func (b *binder) WriteString(s string) {
	b.sql.WriteString(s)
}

// WriteExpr appends a fragment, replacing each marker with the next position
func (b *binder) WriteExpr(e Expr) error {
	next := 0
	for i := 0; i < len(e.SQL); i++ {
		if e.SQL[i] != '?' {
			b.sql.WriteByte(e.SQL[i])
			continue
		}
		if next >= len(e.Args) {
			return fmt.Errorf("fragment %q has more placeholders than values", e.SQL)
		}
		b.args = append(b.args, e.Args[next])
		next++
		b.sql.WriteByte('$')
		b.sql.WriteString(strconv.Itoa(len(b.args)))
	}
	if next != len(e.Args) {
		return fmt.Errorf("fragment %q has %d values for %d placeholders", e.SQL, len(e.Args), next)
	}
	return nil
}

// WriteExprs appends fragments separated by sep
func (b *binder) WriteExprs(exprs []Expr, sep string) error {
	for i, e := range exprs {
		if i > 0 {
			b.sql.WriteString(sep)
		}
		if err := b.WriteExpr(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) String() string {
	return b.sql.String()
}

// Args returns the values in placeholder order
func (b *binder) Args() []interface{} {
	if b.args == nil {
		return []interface{}{}
	}
	return b.args
}
