package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// Operator represents a filter operator code
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpLessThan
	OpGreaterThanOrEqual
	OpLessThanOrEqual
	OpContains
	OpStartsWith
	OpEndsWith
	OpNotContains
	OpIn
	OpFalse
	OpTrue
	OpIsNull
	OpNotNull
)

var operatorCodes = map[string]Operator{
	"eq":   OpEqual,
	"ne":   OpNotEqual,
	"gt":   OpGreaterThan,
	"lt":   OpLessThan,
	"gte":  OpGreaterThanOrEqual,
	"lte":  OpLessThanOrEqual,
	"ct":   OpContains,
	"sw":   OpStartsWith,
	"fw":   OpEndsWith,
	"nct":  OpNotContains,
	"in":   OpIn,
	"0":    OpFalse,
	"1":    OpTrue,
	"null": OpIsNull,
	"nn":   OpNotNull,
}

// ParseOperator returns the operator for a request operator code
func ParseOperator(code string) (Operator, bool) {
	op, ok := operatorCodes[code]
	return op, ok
}

// Code returns the request operator code
func (o Operator) Code() string {
	switch o {
	case OpEqual:
		return "eq"
	case OpNotEqual:
		return "ne"
	case OpGreaterThan:
		return "gt"
	case OpLessThan:
		return "lt"
	case OpGreaterThanOrEqual:
		return "gte"
	case OpLessThanOrEqual:
		return "lte"
	case OpContains:
		return "ct"
	case OpStartsWith:
		return "sw"
	case OpEndsWith:
		return "fw"
	case OpNotContains:
		return "nct"
	case OpIn:
		return "in"
	case OpFalse:
		return "0"
	case OpTrue:
		return "1"
	case OpIsNull:
		return "null"
	case OpNotNull:
		return "nn"
	default:
		return ""
	}
}

// String returns the SQL comparison token
func (o Operator) String() string {
	switch o {
	case OpEqual, OpFalse, OpTrue:
		return "="
	case OpNotEqual:
		return "<>"
	case OpGreaterThan:
		return ">"
	case OpLessThan:
		return "<"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThanOrEqual:
		return "<="
	case OpContains, OpStartsWith, OpEndsWith, OpNotContains:
		return "ILIKE"
	case OpIn:
		return "IN"
	case OpIsNull, OpNotNull:
		return "IS"
	default:
		return "UNKNOWN"
	}
}

var (
	errUnknownOperator = errors.New("unknown operator")
	errIllegalOperator = errors.New("operator not allowed for field type")
)

// FilterClause is one field filter parsed from a request parameter
type FilterClause struct {
	FieldID  string
	Operator Operator
	Operand  string
}

// ParseFilterClause splits "op.operand" at the first dot. The operand keeps
// any further dots.
func ParseFilterClause(fieldID, raw string) (FilterClause, error) {
	code, operand, _ := strings.Cut(raw, ".")
	op, ok := ParseOperator(code)
	if !ok {
		return FilterClause{}, fmt.Errorf("%w %q", errUnknownOperator, code)
	}
	return FilterClause{FieldID: fieldID, Operator: op, Operand: operand}, nil
}

// column returns the alias-qualified, quoted column reference
func column(alias, name string) string {
	return alias + "." + pq.QuoteIdentifier(name)
}

// Predicate compiles the clause against a field into one where-fragment
func (c FilterClause) Predicate(alias string, f *schema.Field) (Expr, error) {
	col := column(alias, f.Column)

	switch c.Operator {
	case OpEqual, OpNotEqual:
		if !f.IsText() {
			return Bind(col+c.Operator.String()+"?", c.Operand), nil
		}
		if c.Operand == "null" {
			if c.Operator == OpEqual {
				return Raw(col + " IS NULL"), nil
			}
			return Raw(col + " IS NOT NULL"), nil
		}
		return Bind("LOWER("+col+")"+c.Operator.String()+"LOWER(?)", c.Operand), nil

	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return Bind(col+c.Operator.String()+"?", c.Operand), nil

	case OpContains:
		return Bind(col+" ILIKE ?", "%"+c.Operand+"%"), nil
	case OpStartsWith:
		return Bind(col+" ILIKE ?", c.Operand+"%"), nil
	case OpEndsWith:
		return Bind(col+" ILIKE ?", "%"+c.Operand), nil
	case OpNotContains:
		return Bind("NOT "+col+" ILIKE ?", "%"+c.Operand+"%"), nil

	case OpIn:
		if !f.IsListOfValues() {
			return Expr{}, fmt.Errorf("%w: in on %s field", errIllegalOperator, f.Type)
		}
		var values []interface{}
		for _, v := range strings.Split(c.Operand, ",") {
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return Expr{}, fmt.Errorf("%w: empty in list", errIllegalOperator)
		}
		return Bind(col+" IN ("+placeholders(len(values))+")", values...), nil

	case OpFalse:
		return Raw("(" + col + "=false OR " + col + " IS NULL)"), nil
	case OpTrue:
		return Raw(col + "=true"), nil

	case OpIsNull, OpNotNull:
		// both codes share the negated form
		return Raw("NOT " + col + " IS NULL"), nil
	}

	return Expr{}, fmt.Errorf("%w %d", errUnknownOperator, c.Operator)
}
