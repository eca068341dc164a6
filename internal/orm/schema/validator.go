// Package schema provides validation for entity models
package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a model validation error with context
type ValidationError struct {
	Model   string
	Field   string
	Message string
	Hint    string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Model != "" {
		b.WriteString(e.Model)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Validator checks the structural invariants of an indexed model
type Validator struct{}

// NewValidator creates a new model validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports every structural problem found in the model
func (v *Validator) Validate(m *Model) error {
	var errs []*ValidationError
	add := func(field, msg, hint string) {
		errs = append(errs, &ValidationError{Model: m.ID, Field: field, Message: msg, Hint: hint})
	}

	if m.ID == "" {
		add("", "model id is required", "")
	}
	if !IsSafeIdentifier(m.Table) {
		add("", fmt.Sprintf("invalid table name %q", m.Table), "use letters, digits and underscores")
	}
	if m.Schema != "" && !IsSafeIdentifier(m.Schema) {
		add("", fmt.Sprintf("invalid schema name %q", m.Schema), "use letters, digits and underscores")
	}
	if !IsSafeIdentifier(m.PrimaryKey) {
		add("", fmt.Sprintf("invalid primary key %q", m.PrimaryKey), "use letters, digits and underscores")
	}
	if len(m.Fields) == 0 {
		add("", "model has no fields", "")
	}

	seen := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		if seen[f.ID] {
			add(f.ID, "duplicate field id", "")
		}
		seen[f.ID] = true
		if f.ID == m.PrimaryKey {
			add(f.ID, "field id collides with the primary key", "the primary key is projected automatically as id")
		}
		for _, e := range validateField(f) {
			add(f.ID, e, "")
		}
	}

	for _, id := range m.SearchFields {
		if !seen[id] {
			add(id, "search field is not a field of the model", "")
		}
	}

	collections := make(map[string]bool, len(m.Collections))
	for _, c := range m.Collections {
		if c.ID == "" {
			add("", "collection id is required", "")
			continue
		}
		if collections[c.ID] {
			add(c.ID, "duplicate collection id", "")
		}
		collections[c.ID] = true
		if !IsSafeIdentifier(c.ID) {
			add(c.ID, fmt.Sprintf("invalid collection id %q", c.ID), "use letters, digits and underscores")
		}
		if !IsSafeIdentifier(c.Table) {
			add(c.ID, fmt.Sprintf("invalid collection table %q", c.Table), "")
		}
		if !IsSafeIdentifier(c.ParentColumn) {
			add(c.ID, fmt.Sprintf("invalid collection parent column %q", c.ParentColumn), "set column to the foreign key back to the parent")
		}
		if c.OrderBy != "" && !IsSafeIdentifier(c.OrderBy) {
			add(c.ID, fmt.Sprintf("invalid collection order column %q", c.OrderBy), "")
		}
		if c.Order != "" && c.Order != "asc" && c.Order != "desc" {
			add(c.ID, fmt.Sprintf("invalid collection order %q", c.Order), "use asc or desc")
		}
		if len(c.Fields) == 0 {
			add(c.ID, "collection has no fields", "")
		}
		for _, f := range c.Fields {
			for _, e := range validateField(f) {
				add(c.ID+"."+f.ID, e, "")
			}
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("model validation failed with %d errors:\n%s",
			len(errs), strings.Join(msgs, "\n"))
	}

	return nil
}

func validateField(f *Field) []string {
	var msgs []string
	if f.ID == "" {
		msgs = append(msgs, "field id is required")
	} else if !IsSafeIdentifier(f.ID) {
		msgs = append(msgs, fmt.Sprintf("invalid field id %q", f.ID))
	}
	if !IsSafeIdentifier(f.Column) {
		msgs = append(msgs, fmt.Sprintf("invalid column name %q", f.Column))
	}
	if f.Type.IsListOfValues() {
		if f.LookupTable == "" {
			msgs = append(msgs, fmt.Sprintf("%s field requires lovtable", f.Type))
		} else if !IsSafeIdentifier(f.LookupTable) {
			msgs = append(msgs, fmt.Sprintf("invalid lookup table %q", f.LookupTable))
		}
		if f.LookupColumn != "" && !IsSafeIdentifier(f.LookupColumn) {
			msgs = append(msgs, fmt.Sprintf("invalid lookup column %q", f.LookupColumn))
		}
	} else if f.LookupTable != "" {
		msgs = append(msgs, fmt.Sprintf("lovtable is only allowed on lov and list fields, not %s", f.Type))
	}
	return msgs
}

// IsSafeIdentifier checks that a name only contains letters, digits and
// underscores and does not start with a digit
func IsSafeIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, char := range s {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z', char == '_':
		case char >= '0' && char <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
