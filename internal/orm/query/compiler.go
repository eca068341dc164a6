package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// Reserved request parameters; they never name a filtered field
const (
	ParamSelect   = "select"
	ParamFilter   = "filter"
	ParamSearch   = "search"
	ParamOrder    = "order"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamFormat   = "format"
)

// FormatCSV is the format parameter value requesting CSV output
const FormatCSV = "csv"

var reservedParams = map[string]bool{
	ParamSelect:   true,
	ParamFilter:   true,
	ParamSearch:   true,
	ParamOrder:    true,
	ParamPage:     true,
	ParamPageSize: true,
	ParamFormat:   true,
}

// ModelSource resolves entity ids to models
type ModelSource interface {
	Get(id string) (*schema.Model, bool)
	List() []string
	Count() int
}

// Statement is a compiled statement ready for execution
type Statement struct {
	SQL  string
	Args []interface{}

	// Single is set when at most one row is expected
	Single bool

	// Format is the requested output format, empty for JSON
	Format string

	// Header maps result keys to CSV column labels, set for CSV output
	Header []HeaderColumn
}

// Compiler turns entity models and request parameters into statements. It
// holds no per-request state and is safe for concurrent use.
type Compiler struct {
	models ModelSource
	config Config
	logger *zap.Logger
}

// NewCompiler creates a compiler over a model source
func NewCompiler(models ModelSource, cfg Config, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		models: models,
		config: cfg.withDefaults(),
		logger: logger,
	}
}

// Config returns the compiler configuration
func (c *Compiler) Config() Config {
	return c.config
}

// ModelCount returns the number of entities the compiler knows
func (c *Compiler) ModelCount() int {
	return c.models.Count()
}

// Model returns the model of an entity
func (c *Compiler) Model(entity string) (*schema.Model, error) {
	m, ok := c.models.Get(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, entity)
	}
	return m, nil
}

// GetMany compiles a filtered, sorted and paginated listing
func (c *Compiler) GetMany(entity string, params url.Values) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}

	format := params.Get(ParamFormat)
	csv := format == FormatCSV

	q := c.Many(m, params, csv)
	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	stmt := &Statement{SQL: sql, Args: args, Format: format}
	if csv {
		stmt.Header = c.CSVHeader(m)
	}
	return stmt, nil
}

// Many assembles the listing query for a model. Unrecognized parameters are
// dropped and reported as diagnostics.
func (c *Compiler) Many(m *schema.Model, params url.Values, csv bool) *SelectQuery {
	log := c.logger.With(zap.String("entity", m.ID))

	mode := ModeList
	if csv {
		mode = ModeCSV
	}
	fields := c.selectFields(m, params.Get(ParamSelect), mode)

	p := newProjection(m.Schema)
	p.addKey(m.PrimaryKey)
	p.addFields(fields)
	p.addSystemFields(c.config.SystemFields)

	q := &SelectQuery{
		From:       m.QualifiedTable(),
		Alias:      baseAlias,
		WithOffset: true,
	}

	q.Where = c.filters(m, params, log)
	if term := params.Get(ParamSearch); term != "" {
		where, unknown, err := searchPredicate(m, term)
		for _, id := range unknown {
			log.Warn("search field is not a field of the model", zap.String("param", id))
		}
		if err != nil {
			log.Warn("search ignored", zap.Error(err))
		} else {
			q.AddWhere(where)
		}
	}

	if !csv {
		if len(q.Where) > 0 {
			p.add("(SELECT count(*) FROM " + m.QualifiedTable() + ")::integer AS _full_count")
		} else {
			p.add("count(*) OVER()::integer AS _full_count")
		}
	}

	q.Columns = p.columns
	q.Joins = p.joins
	q.OrderBy = c.order(m, p, params.Get(ParamOrder), log)
	if len(q.OrderBy) == 0 && len(fields) > 0 {
		q.OrderBy = []string{"2 ASC"}
	}

	if csv {
		q.Limit = c.config.CSVPageSize
	} else {
		q.Limit = c.config.PageSize
		if size, err := strconv.Atoi(params.Get(ParamPageSize)); err == nil && size > 0 {
			q.Limit = size
		}
		if page, err := strconv.Atoi(params.Get(ParamPage)); err == nil && page > 0 && page <= math.MaxInt/q.Limit {
			q.Offset = page * q.Limit
		}
	}

	return q
}

// selectFields applies the select parameter, falling back to the mode's field set
func (c *Compiler) selectFields(m *schema.Model, sel string, mode Mode) []*schema.Field {
	if sel == "" {
		return FieldsFor(m, mode)
	}

	var fields []*schema.Field
	seen := make(map[string]bool)
	for _, id := range strings.Split(sel, ",") {
		id = strings.TrimSpace(id)
		f, ok := m.Field(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return FieldsFor(m, mode)
	}
	return fields
}

// filterField resolves a filter key; the primary key filters as an integer
func filterField(m *schema.Model, key string) (*schema.Field, bool) {
	if key == m.PrimaryKey {
		return &schema.Field{ID: key, Column: key, Type: schema.TypeInteger}, true
	}
	return m.Field(key)
}

// filters compiles one where-fragment per recognized filter parameter. Keys
// are visited in sorted order so equal requests compile identically.
func (c *Compiler) filters(m *schema.Model, params url.Values, log *zap.Logger) []Expr {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var where []Expr
	for _, key := range keys {
		if reservedParams[key] {
			continue
		}
		f, ok := filterField(m, key)
		if !ok {
			continue
		}

		for _, raw := range params[key] {
			clause, err := ParseFilterClause(key, raw)
			if err != nil {
				log.Warn("invalid filter condition", zap.String("param", key), zap.Error(err))
				continue
			}
			pred, err := clause.Predicate(baseAlias, f)
			if err != nil {
				log.Warn("filter ignored", zap.String("param", key), zap.Error(err))
				continue
			}
			where = append(where, pred)
		}
	}
	return where
}

// order resolves a comma separated order parameter. A term may carry its
// direction as "field.desc" or "field desc", or as a following bare term.
func (c *Compiler) order(m *schema.Model, p *projection, param string, log *zap.Logger) []string {
	if param == "" {
		return nil
	}

	var terms []string
	for _, raw := range strings.Split(param, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if dir, ok := parseDirection(raw); ok {
			if len(terms) > 0 {
				terms[len(terms)-1] = setDirection(terms[len(terms)-1], dir)
			}
			continue
		}

		id, dir := raw, "ASC"
		if name, suffix, ok := cutDirection(raw); ok {
			id, dir = name, suffix
		}

		ref, ok := c.orderColumn(m, p, id)
		if !ok {
			log.Warn("unknown order field", zap.String("param", id))
			continue
		}
		terms = append(terms, ref+" "+dir)
	}
	return terms
}

func (c *Compiler) orderColumn(m *schema.Model, p *projection, id string) (string, bool) {
	if id == m.PrimaryKey {
		return column(baseAlias, m.PrimaryKey), true
	}
	f, ok := m.Field(id)
	if !ok {
		return "", false
	}
	if f.IsLookup() {
		if label, ok := p.labelFor(f); ok {
			return label, true
		}
	}
	return column(baseAlias, f.Column), true
}

func parseDirection(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return "ASC", true
	case "desc":
		return "DESC", true
	}
	return "", false
}

func cutDirection(term string) (string, string, bool) {
	for _, sep := range []string{".", " "} {
		if name, suffix, ok := strings.Cut(term, sep); ok {
			if dir, ok := parseDirection(strings.TrimSpace(suffix)); ok {
				return strings.TrimSpace(name), dir, true
			}
		}
	}
	return "", "", false
}

func setDirection(term, dir string) string {
	term = strings.TrimSuffix(strings.TrimSuffix(term, " ASC"), " DESC")
	return term + " " + dir
}

// ParseID parses a record id, which must be a positive integer
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}

// GetOne compiles a single-record select including every field and collection
func (c *Compiler) GetOne(entity, id string) (*Statement, error) {
	m, err := c.Model(entity)
	if err != nil {
		return nil, err
	}
	pk, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	p := newProjection(m.Schema)
	p.addKey(m.PrimaryKey)
	p.addFields(FieldsFor(m, ModeDetail))
	for _, coll := range m.Collections {
		p.addCollection(m.PrimaryKey, coll)
	}
	p.addSystemFields(c.config.SystemFields)

	q := &SelectQuery{
		Columns: p.columns,
		From:    m.QualifiedTable(),
		Alias:   baseAlias,
		Joins:   p.joins,
		Where:   []Expr{Bind(column(baseAlias, m.PrimaryKey)+"=?", pk)},
		Limit:   1,
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}
	return &Statement{SQL: sql, Args: args, Single: true}, nil
}

// IsCompileError reports whether err was produced while compiling a request
func IsCompileError(err error) bool {
	return IsBadRequest(err) || errors.Is(err, ErrValidationFailed)
}
