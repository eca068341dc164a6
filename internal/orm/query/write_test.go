package query

import (
	"errors"
	"reflect"
	"testing"
)

const productReturning = ` RETURNING "product_id" AS id, "name", "price", "stock", "active",` +
	` "released", "website", "category", "created"`

func TestInsert(t *testing.T) {
	c := newTestCompiler(t)

	stmt, err := c.Insert("product", map[string]interface{}{
		"name":    "Lamp",
		"price":   12.5,
		"stock":   "3",
		"active":  true,
		"created": "2024-01-01T00:00:00Z",
		"bogus":   1,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	expected := `INSERT INTO "evolutility"."products" ("name","price","stock","active") VALUES ($1,$2,$3,$4)` +
		productReturning
	if stmt.SQL != expected {
		t.Errorf("SQL =\n%s\nwant\n%s", stmt.SQL, expected)
	}
	if !reflect.DeepEqual(stmt.Args, []interface{}{"Lamp", 12.5, int64(3), true}) {
		t.Errorf("Args = %#v", stmt.Args)
	}
	if !stmt.Single {
		t.Error("Insert() should expect a single row")
	}
}

func TestInsert_ScenarioB(t *testing.T) {
	c := newTestCompiler(t)

	stmt, err := c.Insert("product", map[string]interface{}{"name": "Lamp", "price": "abc"})
	if stmt != nil {
		t.Error("Insert() should not produce a statement")
	}

	var invalid *InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRecordError, got %v", err)
	}
	if !reflect.DeepEqual(invalid.Fields, []string{"price"}) {
		t.Errorf("Fields = %v", invalid.Fields)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Error("InvalidRecordError should unwrap to ErrValidationFailed")
	}
}

func TestInsert_AccumulatesInvalidFields(t *testing.T) {
	c := newTestCompiler(t)

	_, err := c.Insert("product", map[string]interface{}{
		"stock":    "many",
		"active":   "maybe",
		"released": "03/04/2024",
		"website":  "example.com",
	})

	var invalid *InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRecordError, got %v", err)
	}
	expected := []string{"name", "price", "stock", "active", "released", "website"}
	if !reflect.DeepEqual(invalid.Fields, expected) {
		t.Errorf("Fields = %v, want %v", invalid.Fields, expected)
	}
}

func TestInsert_NoValues(t *testing.T) {
	c := newTestCompiler(t)

	_, err := c.Insert("orders", map[string]interface{}{"bogus": 1})
	if !errors.Is(err, ErrNoValues) {
		t.Errorf("expected ErrNoValues, got %v", err)
	}
}

func TestInsert_UnknownModel(t *testing.T) {
	c := newTestCompiler(t)

	if _, err := c.Insert("nope", map[string]interface{}{"a": 1}); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	c := newTestCompiler(t)

	stmt, err := c.Update("product", "9", map[string]interface{}{
		"price":    "19.99",
		"stock":    float64(4),
		"category": nil,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	expected := `UPDATE "evolutility"."products" AS t1 SET "price"=$1,"stock"=$2,"category"=$3` +
		` WHERE t1."product_id"=$4` + productReturning
	if stmt.SQL != expected {
		t.Errorf("SQL =\n%s\nwant\n%s", stmt.SQL, expected)
	}
	if !reflect.DeepEqual(stmt.Args, []interface{}{19.99, int64(4), nil, int64(9)}) {
		t.Errorf("Args = %#v", stmt.Args)
	}
}

func TestUpdate_RequiredCannotBeCleared(t *testing.T) {
	c := newTestCompiler(t)

	_, err := c.Update("product", "9", map[string]interface{}{"name": ""})

	var invalid *InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRecordError, got %v", err)
	}
	if !reflect.DeepEqual(invalid.Fields, []string{"name"}) {
		t.Errorf("Fields = %v", invalid.Fields)
	}
}

func TestUpdate_InvalidID(t *testing.T) {
	c := newTestCompiler(t)

	if _, err := c.Update("product", "x", map[string]interface{}{"stock": 1}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := newTestCompiler(t)

	stmt, err := c.Delete("product", "12")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	expected := `DELETE FROM "evolutility"."products" WHERE "product_id"=$1 RETURNING "product_id"::integer AS id`
	if stmt.SQL != expected {
		t.Errorf("SQL = %s, want %s", stmt.SQL, expected)
	}
	if !reflect.DeepEqual(stmt.Args, []interface{}{int64(12)}) {
		t.Errorf("Args = %v", stmt.Args)
	}

	if _, err := c.Delete("product", "0"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
