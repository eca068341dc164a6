package schema

import (
	"github.com/lib/pq"
)

// DefaultLookupColumn is the label column used when a lookup field does not name one
const DefaultLookupColumn = "name"

// Field represents one field of an entity
type Field struct {
	ID     string    `yaml:"id"`
	Column string    `yaml:"column"`
	Label  string    `yaml:"label"`
	Type   FieldType `yaml:"type"`

	// Lookup configuration, present iff Type is lov or list
	LookupTable  string `yaml:"lovtable"`
	LookupColumn string `yaml:"lovcolumn"`
	LookupIcon   bool   `yaml:"lovicon"`

	InList   bool `yaml:"inMany"`
	InSearch bool `yaml:"inSearch"`
	Required bool `yaml:"required"`
	ReadOnly bool `yaml:"readonly"`
}

// IsText returns true if the field is compared as text
func (f *Field) IsText() bool { return f.Type.IsText() }

// IsLookup returns true if the field is a single-value lookup
func (f *Field) IsLookup() bool { return f.Type.IsLookup() }

// IsListOfValues returns true if the field's values come from a lookup table
func (f *Field) IsListOfValues() bool { return f.Type.IsListOfValues() }

// IsInteger returns true if the field stores whole numbers
func (f *Field) IsInteger() bool { return f.Type.IsInteger() }

// LabelColumn returns the lookup table column displayed for the field
func (f *Field) LabelColumn() string {
	if f.LookupColumn != "" {
		return f.LookupColumn
	}
	return DefaultLookupColumn
}

// DisplayName returns the label, falling back to the id
func (f *Field) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// Collection represents a one-to-many sub-entity listed under a parent record
type Collection struct {
	ID           string   `yaml:"id"`
	Label        string   `yaml:"label"`
	Table        string   `yaml:"table"`
	ParentColumn string   `yaml:"column"`
	OrderBy      string   `yaml:"orderby"`
	Order        string   `yaml:"order"`
	Fields       []*Field `yaml:"fields"`
}

// OrderColumn returns the configured order column or the first field's column
func (c *Collection) OrderColumn() string {
	if c.OrderBy != "" {
		return c.OrderBy
	}
	if len(c.Fields) > 0 {
		return c.Fields[0].Column
	}
	return "id"
}

// Descending reports whether the collection is listed in descending order
func (c *Collection) Descending() bool {
	return c.Order == "desc"
}

// Model represents the complete definition of one entity
type Model struct {
	ID           string        `yaml:"id"`
	Label        string        `yaml:"label"`
	Schema       string        `yaml:"schema"`
	Table        string        `yaml:"table"`
	PrimaryKey   string        `yaml:"pkey"`
	Fields       []*Field      `yaml:"fields"`
	SearchFields []string      `yaml:"searchFields"`
	Collections  []*Collection `yaml:"collections"`

	fieldsByID      map[string]*Field
	collectionsByID map[string]*Collection
}

// Index fills in defaults and rebuilds the derived lookups. It must be called
// after the model is decoded and before it is shared.
func (m *Model) Index(defaultSchema string) {
	if m.Schema == "" {
		m.Schema = defaultSchema
	}
	if m.Table == "" {
		m.Table = m.ID
	}
	if m.PrimaryKey == "" {
		m.PrimaryKey = "id"
	}

	m.fieldsByID = make(map[string]*Field, len(m.Fields))
	for _, f := range m.Fields {
		if f.Column == "" {
			f.Column = f.ID
		}
		m.fieldsByID[f.ID] = f
	}

	if len(m.SearchFields) == 0 {
		for _, f := range m.Fields {
			if f.InSearch {
				m.SearchFields = append(m.SearchFields, f.ID)
			}
		}
	}

	m.collectionsByID = make(map[string]*Collection, len(m.Collections))
	for _, c := range m.Collections {
		for _, f := range c.Fields {
			if f.Column == "" {
				f.Column = f.ID
			}
		}
		m.collectionsByID[c.ID] = c
	}
}

// Field returns the field with the given id
func (m *Model) Field(id string) (*Field, bool) {
	f, ok := m.fieldsByID[id]
	return f, ok
}

// HasField returns true if the model has a field with the given id
func (m *Model) HasField(id string) bool {
	_, ok := m.fieldsByID[id]
	return ok
}

// Collection returns the sub-collection with the given id
func (m *Model) Collection(id string) (*Collection, bool) {
	c, ok := m.collectionsByID[id]
	return c, ok
}

// QualifiedTable returns the quoted "schema"."table" reference
func (m *Model) QualifiedTable() string {
	return QualifiedName(m.Schema, m.Table)
}

// QualifiedName quotes a table name and prefixes it with the quoted schema
func QualifiedName(schemaName, table string) string {
	if schemaName == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schemaName) + "." + pq.QuoteIdentifier(table)
}
