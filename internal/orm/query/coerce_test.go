package query

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

func TestCoerce(t *testing.T) {
	field := func(ft schema.FieldType) *schema.Field {
		return &schema.Field{ID: "f", Column: "f", Type: ft}
	}

	tests := []struct {
		name     string
		typ      schema.FieldType
		value    interface{}
		expected interface{}
		wantErr  bool
	}{
		{"integer from float", schema.TypeInteger, float64(3), int64(3), false},
		{"integer from string", schema.TypeInteger, " 12 ", int64(12), false},
		{"integer fraction", schema.TypeInteger, 1.5, nil, true},
		{"integer text", schema.TypeInteger, "abc", nil, true},
		{"integer from json number", schema.TypeInteger, json.Number("42"), int64(42), false},
		{"integer float out of range", schema.TypeInteger, 1e20, nil, true},
		{"integer float below range", schema.TypeInteger, -1e20, nil, true},
		{"integer json number out of range", schema.TypeInteger, json.Number("100000000000000000000"), nil, true},
		{"lookup", schema.TypeLOV, "4", int64(4), false},
		{"decimal", schema.TypeDecimal, "2.5", 2.5, false},
		{"money int", schema.TypeMoney, 7, float64(7), false},
		{"decimal bool", schema.TypeDecimal, true, nil, true},
		{"boolean", schema.TypeBoolean, false, false, false},
		{"boolean string", schema.TypeBoolean, "TRUE", true, false},
		{"boolean number", schema.TypeBoolean, float64(0), false, false},
		{"boolean other", schema.TypeBoolean, "yes", nil, true},
		{"boolean json number", schema.TypeBoolean, json.Number("1"), true, false},
		{"boolean json zero", schema.TypeBoolean, json.Number("0"), false, false},
		{"boolean json other", schema.TypeBoolean, json.Number("2"), nil, true},
		{"date", schema.TypeDate, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"date invalid", schema.TypeDate, "2024-13-01", nil, true},
		{"datetime space", schema.TypeDateTime, "2024-02-01 10:30:00", time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC), false},
		{"time", schema.TypeTime, "10:30", "10:30", false},
		{"time invalid", schema.TypeTime, "25:99", nil, true},
		{"email", schema.TypeEmail, "a@b.c", "a@b.c", false},
		{"email invalid", schema.TypeEmail, "ab.c", nil, true},
		{"url", schema.TypeURL, "https://example.com/x", "https://example.com/x", false},
		{"url relative", schema.TypeURL, "/x", nil, true},
		{"list", schema.TypeList, []interface{}{float64(1), "2"}, pq.Int64Array{1, 2}, false},
		{"list string", schema.TypeList, "3, 4", pq.Int64Array{3, 4}, false},
		{"list invalid", schema.TypeList, []interface{}{"x"}, nil, true},
		{"json object", schema.TypeJSON, map[string]interface{}{"a": float64(1)}, `{"a":1}`, false},
		{"json string", schema.TypeJSON, `[1,2]`, `[1,2]`, false},
		{"json invalid", schema.TypeJSON, `{`, nil, true},
		{"text", schema.TypeText, "hello", "hello", false},
		{"text number", schema.TypeText, float64(5), "5", false},
		{"text json number", schema.TypeText, json.Number("5.50"), "5.50", false},
		{"text empty", schema.TypeText, "", "", false},
		{"empty number is null", schema.TypeInteger, "", nil, false},
		{"nil", schema.TypeDate, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(field(tt.typ), tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Coerce(%v) expected error, got %v", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", tt.value, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Coerce(%v) = %#v, want %#v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		term     string
		expected string
	}{
		{"abc", "%abc%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
	}

	for _, tt := range tests {
		if got := SearchPattern(tt.term); got != tt.expected {
			t.Errorf("SearchPattern(%q) = %q, want %q", tt.term, got, tt.expected)
		}
	}
}
