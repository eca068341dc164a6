package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Valid(t *testing.T) {
	m := newTestModel()
	m.Index("s")
	assert.NoError(t, NewValidator().Validate(m))
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Model)
		want   string
	}{
		{"unsafe table", func(m *Model) { m.Table = "contact; drop" }, "invalid table name"},
		{"unsafe pk", func(m *Model) { m.PrimaryKey = `id"` }, "invalid primary key"},
		{"unsafe column", func(m *Model) { m.Fields[0].Column = "last name" }, "invalid column name"},
		{"duplicate field", func(m *Model) { m.Fields[1].ID = "lastname" }, "duplicate field id"},
		{"lookup table on text", func(m *Model) { m.Fields[0].LookupTable = "x" }, "lovtable is only allowed"},
		{"missing lookup table", func(m *Model) { m.Fields[2].LookupTable = "" }, "requires lovtable"},
		{"unknown search field", func(m *Model) { m.SearchFields = []string{"nope"} }, "search field is not a field"},
		{"collection parent", func(m *Model) { m.Collections[0].ParentColumn = "" }, "invalid collection parent column"},
		{"collection order", func(m *Model) { m.Collections[0].Order = "sideways" }, "invalid collection order"},
		{"unsafe field id", func(m *Model) { m.Fields[1].ID = "first?name" }, `invalid field id "first?name"`},
		{"quoted field id", func(m *Model) { m.Fields[1].ID = `first"name` }, "invalid field id"},
		{"unsafe collection field id", func(m *Model) { m.Collections[0].Fields[0].ID = "a b" }, "invalid field id"},
		{"unsafe collection id", func(m *Model) { m.Collections[0].ID = "line-items" }, "invalid collection id"},
		{"pk collision", func(m *Model) { m.Fields[0].ID = "id"; m.Fields[0].Column = "id" }, "collides with the primary key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			m.Index("s")
			tt.mutate(m)
			err := NewValidator().Validate(m)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestIsSafeIdentifier(t *testing.T) {
	assert.True(t, IsSafeIdentifier("contact_note"))
	assert.True(t, IsSafeIdentifier("_x1"))
	assert.False(t, IsSafeIdentifier(""))
	assert.False(t, IsSafeIdentifier("1abc"))
	assert.False(t, IsSafeIdentifier("a-b"))
	assert.False(t, IsSafeIdentifier(`a"b`))
	assert.False(t, IsSafeIdentifier("a?b"))
}
