package query

import (
	"testing"
)

func TestToSQL_SimpleSelect(t *testing.T) {
	q := &SelectQuery{From: `"s"."posts"`}
	q.AddColumn(Raw("*"))

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	expected := `SELECT * FROM "s"."posts"`
	if sql != expected {
		t.Errorf("ToSQL() = %s, want %s", sql, expected)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestToSQL_FullStatement(t *testing.T) {
	q := &SelectQuery{
		From:       `"s"."posts"`,
		Alias:      "t1",
		Joins:      []Join{{Table: `"s"."author"`, Alias: "t2", Condition: `t1."author"=t2."id"`}},
		OrderBy:    []string{`t1."id" DESC`},
		WithOffset: true,
	}
	q.AddColumn(Raw(`t1."id" AS id`)).
		AddColumn(Raw(`t2."name" AS "author_txt"`)).
		AddWhere(Bind(`t1."status"=?`, "draft")).
		AddWhere(Bind(`t1."views">?`, "10"))
	q.Limit = 20

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	expected := `SELECT t1."id" AS id, t2."name" AS "author_txt" FROM "s"."posts" AS t1` +
		` LEFT JOIN "s"."author" AS t2 ON t1."author"=t2."id"` +
		` WHERE t1."status"=$1 AND t1."views">$2 ORDER BY t1."id" DESC LIMIT 20 OFFSET 0`
	if sql != expected {
		t.Errorf("ToSQL() =\n%s\nwant\n%s", sql, expected)
	}
	if len(args) != 2 || args[0] != "draft" || args[1] != "10" {
		t.Errorf("args = %v", args)
	}
}

func TestToSQL_OffsetOmittedWhenZero(t *testing.T) {
	q := &SelectQuery{From: "t", Limit: 1}
	q.AddColumn(Raw("a"))

	sql, _, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}
	if sql != "SELECT a FROM t LIMIT 1" {
		t.Errorf("ToSQL() = %s", sql)
	}
}

func TestToSQL_Invalid(t *testing.T) {
	if _, _, err := (&SelectQuery{From: "t"}).ToSQL(); err == nil {
		t.Error("expected error for query without columns")
	}

	q := &SelectQuery{}
	q.AddColumn(Raw("a"))
	if _, _, err := q.ToSQL(); err == nil {
		t.Error("expected error for query without table")
	}
}
