package query

import (
	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// writeKind distinguishes insert from update validation
type writeKind int

const (
	writeInsert writeKind = iota
	writeUpdate
)

// assignment is one validated column value
type assignment struct {
	column string
	value  interface{}
}

// namedValues validates the submitted values against the model. Every
// invalid field is collected before failing.
func namedValues(m *schema.Model, values map[string]interface{}, kind writeKind) ([]assignment, error) {
	var sets []assignment
	var invalids []string

	for _, f := range m.Fields {
		if f.ReadOnly {
			continue
		}
		v, submitted := values[f.ID]
		if !submitted {
			if kind == writeInsert && f.Required {
				invalids = append(invalids, f.ID)
			}
			continue
		}
		if f.Required && isEmpty(v) {
			invalids = append(invalids, f.ID)
			continue
		}

		bound, err := Coerce(f, v)
		if err != nil {
			invalids = append(invalids, f.ID)
			continue
		}
		sets = append(sets, assignment{column: f.Column, value: bound})
	}

	if len(invalids) > 0 {
		return nil, &InvalidRecordError{Fields: invalids}
	}
	if len(sets) == 0 {
		return nil, ErrNoValues
	}
	return sets, nil
}

// Insert compiles an INSERT returning the written row
func (c *Compiler) Insert(entity string, values map[string]interface{}) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	sets, err := namedValues(m, values, writeInsert)
	if err != nil {
		return nil, err
	}

	cols := make([]Expr, len(sets))
	vals := make([]Expr, len(sets))
	for i, s := range sets {
		cols[i] = Raw(pq.QuoteIdentifier(s.column))
		vals[i] = Bind("?", s.value)
	}

	var b binder
	b.WriteString("INSERT INTO " + m.QualifiedTable() + " (")
	if err := b.WriteExprs(cols, ","); err != nil {
		return nil, err
	}
	b.WriteString(") VALUES (")
	if err := b.WriteExprs(vals, ","); err != nil {
		return nil, err
	}
	b.WriteString(") RETURNING " + returning(m))

	return &Statement{SQL: b.String(), Args: b.Args(), Single: true}, nil
}

// Update compiles an UPDATE of one record returning the written row
func (c *Compiler) Update(entity, id string, values map[string]interface{}) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	pk, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	sets, err := namedValues(m, values, writeUpdate)
	if err != nil {
		return nil, err
	}

	exprs := make([]Expr, len(sets))
	for i, s := range sets {
		exprs[i] = Bind(pq.QuoteIdentifier(s.column)+"=?", s.value)
	}

	var b binder
	b.WriteString("UPDATE " + m.QualifiedTable() + " AS " + baseAlias + " SET ")
	if err := b.WriteExprs(exprs, ","); err != nil {
		return nil, err
	}
	b.WriteString(" WHERE ")
	if err := b.WriteExpr(Bind(column(baseAlias, m.PrimaryKey)+"=?", pk)); err != nil {
		return nil, err
	}
	b.WriteString(" RETURNING " + returning(m))

	return &Statement{SQL: b.String(), Args: b.Args(), Single: true}, nil
}

// Delete compiles a DELETE of one record returning its id
func (c *Compiler) Delete(entity, id string) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	pk, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	key := pq.QuoteIdentifier(m.PrimaryKey)
	var b binder
	b.WriteString("DELETE FROM " + m.QualifiedTable() + " WHERE ")
	if err := b.WriteExpr(Bind(key+"=?", pk)); err != nil {
		return nil, err
	}
	b.WriteString(" RETURNING " + key + "::integer AS id")

	return &Statement{SQL: b.String(), Args: b.Args(), Single: true}, nil
}
