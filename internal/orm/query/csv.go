package query

import "github.com/conduit-lang/querykit/internal/orm/schema"

// HeaderColumn maps a result key to its CSV column label
type HeaderColumn struct {
	Key   string
	Label string
}

// CSVHeader returns the CSV columns of a full export, in output order
func (c *Compiler) CSVHeader(m *schema.Model) []HeaderColumn {
	name := func(f *schema.Field) string {
		if c.config.CSVHeader == HeaderID {
			return f.ID
		}
		return f.DisplayName()
	}

	header := []HeaderColumn{{Key: "id", Label: "ID"}}
	for _, f := range m.Fields {
		if f.IsLookup() {
			header = append(header,
				HeaderColumn{Key: f.ID, Label: name(f) + " ID"},
				HeaderColumn{Key: f.ID + "_txt", Label: name(f)},
			)
			continue
		}
		header = append(header, HeaderColumn{Key: f.ID, Label: name(f)})
	}
	return header
}
