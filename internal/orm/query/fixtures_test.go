package query

import (
	"testing"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

func ordersModel() *schema.Model {
	return &schema.Model{
		ID:    "orders",
		Label: "Orders",
		Fields: []*schema.Field{
			{ID: "title", Label: "Title", Type: schema.TypeText, InList: true, InSearch: true},
			{ID: "status", Label: "Status", Type: schema.TypeLOV, LookupTable: "order_status", InList: true},
			{ID: "createdAt", Column: "created_at", Label: "Created", Type: schema.TypeDateTime, InList: true},
			{ID: "amount", Label: "Amount", Type: schema.TypeMoney},
			{ID: "notes", Type: schema.TypeTextMultiline, InSearch: true},
			{ID: "paid", Label: "Paid", Type: schema.TypeBoolean},
			{ID: "tags", Label: "Tags", Type: schema.TypeList, LookupTable: "tag"},
			{ID: "customer", Label: "Customer", Type: schema.TypeLOV, LookupTable: "customer", LookupColumn: "company", LookupIcon: true},
			{ID: "contact", Label: "Contact", Type: schema.TypeEmail},
		},
		Collections: []*schema.Collection{
			{
				ID:           "lines",
				Table:        "order_line",
				ParentColumn: "order_id",
				Order:        "desc",
				Fields: []*schema.Field{
					{ID: "product", Type: schema.TypeLOV, LookupTable: "product"},
					{ID: "qty", Type: schema.TypeInteger},
				},
			},
		},
	}
}

func productModel() *schema.Model {
	return &schema.Model{
		ID:         "product",
		Table:      "products",
		PrimaryKey: "product_id",
		Fields: []*schema.Field{
			{ID: "name", Label: "Name", Type: schema.TypeText, Required: true},
			{ID: "price", Label: "Price", Type: schema.TypeMoney, Required: true},
			{ID: "stock", Type: schema.TypeInteger},
			{ID: "active", Type: schema.TypeBoolean},
			{ID: "released", Type: schema.TypeDate},
			{ID: "website", Type: schema.TypeURL},
			{ID: "category", Type: schema.TypeLOV, LookupTable: "product_category"},
			{ID: "created", Type: schema.TypeDateTime, ReadOnly: true},
		},
	}
}

// plainModel has no search fields and no fields flagged for lists
func plainModel() *schema.Model {
	fields := make([]*schema.Field, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		fields = append(fields, &schema.Field{ID: id, Type: schema.TypeText})
	}
	return &schema.Model{ID: "plain", Fields: fields}
}

func newTestRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry("evolutility")
	for _, m := range []*schema.Model{ordersModel(), productModel(), plainModel()} {
		if err := reg.Register(m); err != nil {
			t.Fatalf("Register(%s) error = %v", m.ID, err)
		}
	}
	return reg
}

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	return NewCompiler(newTestRegistry(t), DefaultConfig(), zap.NewNop())
}
