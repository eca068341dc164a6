package query

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// Mode selects which fields a listing projects
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeCSV
)

// listFallbackSize is the number of leading fields listed when none is flagged inMany
const listFallbackSize = 5

const baseAlias = "t1"

// FieldsFor returns the field set projected for a mode
func FieldsFor(m *schema.Model, mode Mode) []*schema.Field {
	if mode != ModeList {
		return m.Fields
	}

	var fields []*schema.Field
	for _, f := range m.Fields {
		if f.InList {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		n := len(m.Fields)
		if n > listFallbackSize {
			n = listFallbackSize
		}
		fields = m.Fields[:n]
	}
	return fields
}

// projection accumulates select expressions and one join per distinct lookup
type projection struct {
	schema  string
	columns []Expr
	joins   []Join
	aliases map[string]string
}

func newProjection(schemaName string) *projection {
	return &projection{
		schema:  schemaName,
		aliases: make(map[string]string),
	}
}

func lookupKey(f *schema.Field) string {
	return f.LookupTable + "|" + f.Column
}

// joinFor returns the alias joined for a lookup field, adding the join on first use
func (p *projection) joinFor(f *schema.Field) string {
	key := lookupKey(f)
	if alias, ok := p.aliases[key]; ok {
		return alias
	}

	alias := fmt.Sprintf("t%d", len(p.joins)+2)
	p.aliases[key] = alias
	p.joins = append(p.joins, Join{
		Table:     schema.QualifiedName(p.schema, f.LookupTable),
		Alias:     alias,
		Condition: column(baseAlias, f.Column) + "=" + column(alias, "id"),
	})
	return alias
}

// labelFor returns the joined label reference of a lookup field, if it was projected
func (p *projection) labelFor(f *schema.Field) (string, bool) {
	alias, ok := p.aliases[lookupKey(f)]
	if !ok {
		return "", false
	}
	return column(alias, f.LabelColumn()), true
}

func (p *projection) add(sql string) {
	p.columns = append(p.columns, Raw(sql))
}

// addKey projects the primary key as id
func (p *projection) addKey(pk string) {
	p.add(column(baseAlias, pk) + " AS id")
}

// addField projects a field's column and, for lookups, its label
func (p *projection) addField(f *schema.Field) {
	p.add(fieldColumn(baseAlias, f))

	switch {
	case f.IsLookup():
		alias := p.joinFor(f)
		p.add(column(alias, f.LabelColumn()) + " AS " + pq.QuoteIdentifier(f.ID+"_txt"))
		if f.LookupIcon {
			p.add(column(alias, "icon") + " AS " + pq.QuoteIdentifier(f.ID+"_icon"))
		}
	case f.Type.IsList():
		p.add(listLabel(p.schema, baseAlias, f))
	}
}

func (p *projection) addFields(fields []*schema.Field) {
	for _, f := range fields {
		p.addField(f)
	}
}

// addSystemFields appends bookkeeping columns
func (p *projection) addSystemFields(fields []SystemField) {
	for _, sf := range fields {
		col := column(baseAlias, sf.Column)
		if sf.Type.IsInteger() {
			col += "::integer"
		}
		p.add(col)
	}
}

// addCollection projects a sub-collection as a JSON array of its rows
func (p *projection) addCollection(pk string, c *schema.Collection) {
	const alias = "c"

	cols := column(alias, "id")
	for _, f := range c.Fields {
		cols += ", " + fieldColumn(alias, f)
		if f.IsLookup() {
			cols += ", (SELECT " + column("l", f.LabelColumn()) +
				" FROM " + schema.QualifiedName(p.schema, f.LookupTable) + " AS l" +
				" WHERE " + column("l", "id") + "=" + column(alias, f.Column) +
				") AS " + pq.QuoteIdentifier(f.ID+"_txt")
		}
	}

	p.add("(SELECT array_to_json(array_agg(row_to_json(" + alias + "))) FROM (SELECT " + cols +
		" FROM " + schema.QualifiedName(p.schema, c.Table) + " AS " + alias +
		" WHERE " + column(alias, c.ParentColumn) + "=" + column(baseAlias, pk) +
		" ORDER BY " + collectionOrder(alias, c) +
		") AS " + alias + ") AS " + pq.QuoteIdentifier(c.ID))
}

// fieldColumn renders a field column, aliased to the field id when they differ
func fieldColumn(alias string, f *schema.Field) string {
	col := column(alias, f.Column)
	if f.ID != f.Column {
		col += " AS " + pq.QuoteIdentifier(f.ID)
	}
	return col
}

// listLabel aggregates the labels of a multi-value lookup column
func listLabel(schemaName, alias string, f *schema.Field) string {
	return "(SELECT string_agg(" + column("l", f.LabelColumn()) + ", ', ')" +
		" FROM " + schema.QualifiedName(schemaName, f.LookupTable) + " AS l" +
		" WHERE " + column("l", "id") + "=ANY(" + column(alias, f.Column) + ")" +
		") AS " + pq.QuoteIdentifier(f.ID+"_txt")
}

func collectionOrder(alias string, c *schema.Collection) string {
	dir := " ASC"
	if c.Descending() {
		dir = " DESC"
	}
	return column(alias, c.OrderColumn()) + dir
}

// returning renders the RETURNING list of a write statement
func returning(m *schema.Model) string {
	cols := pq.QuoteIdentifier(m.PrimaryKey) + " AS id"
	for _, f := range m.Fields {
		cols += ", " + pq.QuoteIdentifier(f.Column)
		if f.ID != f.Column {
			cols += " AS " + pq.QuoteIdentifier(f.ID)
		}
	}
	return cols
}
