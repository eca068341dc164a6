package commands

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSQLCommandGetMany(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, "sql", "contact", "firstname=sw.A&order=lastname.desc", "--config", path)
	if err != nil {
		t.Fatalf("sql failed: %v", err)
	}

	if !strings.Contains(out, `FROM "evolutility"."contact" AS t1`) {
		t.Errorf("expected qualified table in output:\n%s", out)
	}
	if !strings.Contains(out, `t1."lastname" DESC`) {
		t.Errorf("expected order in output:\n%s", out)
	}
	if !strings.Contains(out, "$1  A%") {
		t.Errorf("expected bound parameter in output:\n%s", out)
	}
}

func TestSQLCommandModes(t *testing.T) {
	path := setupProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"get one", []string{"sql", "contact", "--id", "42"}, `WHERE t1."id"=$1`},
		{"lov", []string{"sql", "contact", "--lov", "category"}, `FROM "evolutility"."contact_category"`},
		{"collection", []string{"sql", "contact", "--collection", "notes", "--parent", "42"}, `WHERE t1."contact_id"=$1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append(tt.args, "--config", path)...)
			if err != nil {
				t.Fatalf("sql failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}
}

func TestSQLCommandJSON(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, "sql", "contact", "--id", "7", "--json", "--config", path)
	if err != nil {
		t.Fatalf("sql failed: %v", err)
	}

	var stmt struct {
		SQL    string        `json:"sql"`
		Args   []interface{} `json:"args"`
		Single bool          `json:"single"`
	}
	if err := json.Unmarshal([]byte(out), &stmt); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if !stmt.Single || len(stmt.Args) != 1 || stmt.Args[0] != float64(7) {
		t.Errorf("unexpected statement %+v", stmt)
	}
}

func TestSQLCommandUnknownEntity(t *testing.T) {
	path := setupProject(t)

	_, stderr, err := execute(t, "sql", "contcat", "--config", path)
	if err == nil {
		t.Fatal("expected error for unknown entity")
	}
	if !strings.Contains(stderr, "Did you mean: contact?") {
		t.Errorf("expected suggestion, got:\n%s", stderr)
	}
}

func TestSQLCommandErrors(t *testing.T) {
	path := setupProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"collection without parent", []string{"sql", "contact", "--collection", "notes"}},
		{"invalid id", []string{"sql", "contact", "--id", "abc"}},
		{"invalid lov field", []string{"sql", "contact", "--lov", "lastname"}},
		{"bad query string", []string{"sql", "contact", "a=%zz"}},
		{"missing entity", []string{"sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, append(tt.args, "--config", path)...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
