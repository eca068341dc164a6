// Package schema provides the entity model definitions used by the query compiler.
// It defines the closed set of field types, the per-entity model with its derived
// field index, and the read-only registry shared by concurrent requests.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldType represents the declared type of an entity field
type FieldType int

const (
	// Text types
	TypeText FieldType = iota
	TypeTextMultiline
	TypeHTML
	TypeEmail
	TypeURL

	// Numeric types
	TypeInteger
	TypeDecimal
	TypeMoney

	// Boolean
	TypeBoolean

	// Time types
	TypeDate
	TypeDateTime
	TypeTime

	// Lookup types
	TypeLOV
	TypeList

	// Binary / misc
	TypeImage
	TypeDocument
	TypeColor
	TypeJSON
)

// String returns the string representation of the field type
func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeTextMultiline:
		return "textmultiline"
	case TypeHTML:
		return "html"
	case TypeEmail:
		return "email"
	case TypeURL:
		return "url"
	case TypeInteger:
		return "integer"
	case TypeDecimal:
		return "decimal"
	case TypeMoney:
		return "money"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeTime:
		return "time"
	case TypeLOV:
		return "lov"
	case TypeList:
		return "list"
	case TypeImage:
		return "image"
	case TypeDocument:
		return "document"
	case TypeColor:
		return "color"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a string to a FieldType
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "text", "":
		return TypeText, nil
	case "textmultiline":
		return TypeTextMultiline, nil
	case "html":
		return TypeHTML, nil
	case "email":
		return TypeEmail, nil
	case "url":
		return TypeURL, nil
	case "integer":
		return TypeInteger, nil
	case "decimal":
		return TypeDecimal, nil
	case "money":
		return TypeMoney, nil
	case "boolean":
		return TypeBoolean, nil
	case "date":
		return TypeDate, nil
	case "datetime":
		return TypeDateTime, nil
	case "time":
		return TypeTime, nil
	case "lov":
		return TypeLOV, nil
	case "list":
		return TypeList, nil
	case "image":
		return TypeImage, nil
	case "document":
		return TypeDocument, nil
	case "color":
		return TypeColor, nil
	case "json":
		return TypeJSON, nil
	default:
		return 0, fmt.Errorf("unknown field type: %s", s)
	}
}

// UnmarshalYAML decodes a field type from its string form
func (t *FieldType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFieldType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsText returns true for types compared as text
func (t FieldType) IsText() bool {
	switch t {
	case TypeText, TypeTextMultiline, TypeHTML, TypeEmail, TypeURL:
		return true
	}
	return false
}

// IsLookup returns true for single-value foreign-key fields
func (t FieldType) IsLookup() bool {
	return t == TypeLOV
}

// IsList returns true for multi-value lookup lists
func (t FieldType) IsList() bool {
	return t == TypeList
}

// IsListOfValues returns true for any type whose values come from a lookup table
func (t FieldType) IsListOfValues() bool {
	return t == TypeLOV || t == TypeList
}

// IsInteger returns true for types stored as whole numbers
func (t FieldType) IsInteger() bool {
	return t == TypeInteger || t == TypeLOV
}

// IsNumeric returns true for all numeric types
func (t FieldType) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeDecimal, TypeMoney:
		return true
	}
	return false
}
