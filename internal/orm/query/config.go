package query

import "github.com/conduit-lang/querykit/internal/orm/schema"

// CSV header styles
const (
	HeaderLabel = "label"
	HeaderID    = "id"
)

// SystemField is a bookkeeping column present on every entity table
type SystemField struct {
	Column string
	Type   schema.FieldType
}

// Config holds the scalars read once at startup. It is passed by value and
// never modified by the compiler.
type Config struct {
	Schema       string
	PageSize     int
	LOVSize      int
	CSVPageSize  int
	CSVHeader    string
	SystemFields []SystemField
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Schema:      "evolutility",
		PageSize:    50,
		LOVSize:     100,
		CSVPageSize: 1000,
		CSVHeader:   HeaderLabel,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Schema == "" {
		c.Schema = d.Schema
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.LOVSize <= 0 {
		c.LOVSize = d.LOVSize
	}
	if c.CSVPageSize <= 0 {
		c.CSVPageSize = d.CSVPageSize
	}
	if c.CSVHeader != HeaderID {
		c.CSVHeader = HeaderLabel
	}
	return c
}
