package query

import (
	"errors"
	"strings"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

var errNoSearchFields = errors.New("no search fields are specified in model")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern returns the contains pattern for a search term, with pattern
// characters escaped
func SearchPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// searchPredicate ORs a contains match of term over every search field.
// Each field binds its own copy of the pattern.
func searchPredicate(m *schema.Model, term string) (Expr, []string, error) {
	if len(m.SearchFields) == 0 {
		return Expr{}, nil, errNoSearchFields
	}

	pattern := SearchPattern(term)
	var parts []Expr
	var unknown []string
	for _, id := range m.SearchFields {
		f, ok := m.Field(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		parts = append(parts, Bind(column(baseAlias, f.Column)+" ILIKE ?", pattern))
	}
	if len(parts) == 0 {
		return Expr{}, unknown, errNoSearchFields
	}

	return JoinExprs(parts, " OR ").Wrap("(", ")"), unknown, nil
}
