package query

import (
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// lookupSource is the table a list of values is read from
type lookupSource struct {
	schema string
	table  string
	key    string
	label  string
	icon   bool
}

// resolveLookup finds the list of values behind a field. A field id equal to
// the entity id lists the entity's own records.
func resolveLookup(m *schema.Model, fieldID string) (lookupSource, error) {
	f, ok := m.Field(fieldID)
	if !ok && fieldID == m.ID && len(m.Fields) > 0 {
		return lookupSource{
			schema: m.Schema,
			table:  m.Table,
			key:    m.PrimaryKey,
			label:  m.Fields[0].Column,
		}, nil
	}
	if !ok || !f.IsListOfValues() {
		return lookupSource{}, fmt.Errorf("%w: %q", ErrInvalidField, fieldID)
	}
	return lookupSource{
		schema: m.Schema,
		table:  f.LookupTable,
		key:    "id",
		label:  f.LabelColumn(),
		icon:   f.LookupIcon,
	}, nil
}

// LookupRef names the list of values of one entity field
type LookupRef struct {
	Entity string
	Field  string
}

// LookupsOf returns every list of values read from the entity's table: the
// entity's own list first, then each lookup field of any model pointing at
// that table.
func (c *Compiler) LookupsOf(entity string) []LookupRef {
	m, ok := c.models.Get(entity)
	if !ok {
		return nil
	}

	refs := []LookupRef{{Entity: entity, Field: entity}}
	for _, id := range c.models.List() {
		other, ok := c.models.Get(id)
		if !ok || other.Schema != m.Schema {
			continue
		}
		for _, f := range other.Fields {
			if f.IsListOfValues() && f.LookupTable == m.Table {
				refs = append(refs, LookupRef{Entity: other.ID, Field: f.ID})
			}
		}
	}
	return refs
}

// LookupValues compiles the bounded, alphabetical list of values of a field
func (c *Compiler) LookupValues(entity, fieldID string) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	src, err := resolveLookup(m, fieldID)
	if err != nil {
		return nil, err
	}

	key := pq.QuoteIdentifier(src.key)
	if src.key != "id" {
		key += " AS id"
	}
	label := pq.QuoteIdentifier(src.label)

	q := &SelectQuery{
		Columns: []Expr{Raw(key), Raw(label + " AS text")},
		From:    schema.QualifiedName(src.schema, src.table),
		OrderBy: []string{"UPPER(" + label + ") ASC"},
		Limit:   c.config.LOVSize,
	}
	if src.icon {
		q.AddColumn(Raw(pq.QuoteIdentifier("icon")))
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}
	return &Statement{SQL: sql, Args: args}, nil
}

// Collection compiles the listing of a sub-collection for one parent record
func (c *Compiler) Collection(entity, collectionID, parentID string) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	coll, ok := m.Collection(collectionID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, collectionID)
	}
	parent, err := strconv.ParseInt(parentID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, parentID)
	}

	p := newProjection(m.Schema)
	p.add(column(baseAlias, "id"))
	p.addFields(coll.Fields)

	q := &SelectQuery{
		Columns: p.columns,
		From:    schema.QualifiedName(m.Schema, coll.Table),
		Alias:   baseAlias,
		Joins:   p.joins,
		Where:   []Expr{Bind(column(baseAlias, coll.ParentColumn)+"=?", parent)},
		OrderBy: []string{collectionOrder(baseAlias, coll)},
		Limit:   c.config.PageSize,
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}
	return &Statement{SQL: sql, Args: args}, nil
}
