package query

import (
	"reflect"
	"testing"
)

func TestBinder_NumbersAcrossFragments(t *testing.T) {
	var b binder
	b.WriteString("WHERE ")
	err := b.WriteExprs([]Expr{
		Bind("a=?", 1),
		Raw("b IS NULL"),
		Bind("c IN (?,?)", "x", "y"),
	}, " AND ")
	if err != nil {
		t.Fatalf("WriteExprs() error = %v", err)
	}

	expected := "WHERE a=$1 AND b IS NULL AND c IN ($2,$3)"
	if b.String() != expected {
		t.Errorf("String() = %s, want %s", b.String(), expected)
	}
	if !reflect.DeepEqual(b.Args(), []interface{}{1, "x", "y"}) {
		t.Errorf("Args() = %v", b.Args())
	}
}

func TestBinder_MismatchedValues(t *testing.T) {
	var b binder
	if err := b.WriteExpr(Bind("a=? AND b=?", 1)); err == nil {
		t.Error("expected error for missing value")
	}

	var b2 binder
	if err := b2.WriteExpr(Bind("a=?", 1, 2)); err == nil {
		t.Error("expected error for extra value")
	}
}

func TestBinder_EmptyArgs(t *testing.T) {
	var b binder
	b.WriteString("SELECT 1")
	if b.Args() == nil {
		t.Error("Args() should not be nil")
	}
}

func TestJoinExprs(t *testing.T) {
	e := JoinExprs([]Expr{Bind("a=?", 1), Bind("b=?", 2)}, " OR ").Wrap("(", ")")

	if e.SQL != "(a=? OR b=?)" {
		t.Errorf("SQL = %s", e.SQL)
	}
	if len(e.Args) != 2 {
		t.Errorf("Args length = %d, want 2", len(e.Args))
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, ""},
		{1, "?"},
		{3, "?,?,?"},
	}

	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.expected {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}
