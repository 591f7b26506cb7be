package core

import "testing"

func TestNewCatalog_Columns(t *testing.T) {
	stock := 3
	cat := NewCatalog(
		Product{ID: 1, Title: "a"},
		Product{ID: 2, Title: "b", Stock: &stock},
	)

	for _, field := range RequiredFields {
		if !cat.HasColumn(field) {
			t.Errorf("missing required column %q", field)
		}
	}
	if !cat.HasColumn(FieldStock) {
		t.Error("stock is set on one record, column should be present")
	}
	if cat.HasColumn(FieldSellerRating) {
		t.Error("seller_rating is never set, column should be absent")
	}
	if missing := cat.MissingRequired(); len(missing) != 0 {
		t.Errorf("MissingRequired() = %v, want none", missing)
	}
}

func TestCatalog_MissingRequired(t *testing.T) {
	cat := Catalog{Columns: []string{FieldID, FieldTitle, FieldPrice, FieldRating, FieldReviewsCount}}
	missing := cat.MissingRequired()
	if len(missing) != 1 || missing[0] != FieldCategory {
		t.Errorf("MissingRequired() = %v, want [category]", missing)
	}
}

func TestProduct_Numeric(t *testing.T) {
	rating := 4.2
	p := Product{Price: 10, Rating: 3, ReviewsCount: 7, SellerRating: &rating}

	tests := []struct {
		field string
		want  float64
		ok    bool
	}{
		{FieldPrice, 10, true},
		{FieldReviewsCount, 7, true},
		{FieldSellerRating, 4.2, true},
		{FieldStock, 0, false},
		{"unknown", 0, false},
	}
	for _, tt := range tests {
		got, ok := p.Numeric(tt.field)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Numeric(%q) = (%v, %v), want (%v, %v)", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestProduct_Clone(t *testing.T) {
	sales, stock, days, rating := 1, 2, 3, 4.5
	p := Product{ID: 1, Title: "a", SalesLast30Days: &sales, Stock: &stock, ShippingTimeDays: &days, SellerRating: &rating}
	c := p.Clone()

	sales, stock, days, rating = 10, 20, 30, 1
	if *c.SalesLast30Days != 1 || *c.Stock != 2 || *c.ShippingTimeDays != 3 || *c.SellerRating != 4.5 {
		t.Errorf("Clone() shares optional fields with the original: %+v", c)
	}
	if empty := (&Product{ID: 2}).Clone(); empty.Stock != nil || empty.SellerRating != nil {
		t.Errorf("Clone() of unset fields = %+v", empty)
	}
	if CloneProducts(nil) != nil {
		t.Error("CloneProducts(nil) should be nil")
	}
}
