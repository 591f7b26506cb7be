package similarity

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/prodsim/core"
)

func exampleCatalog() core.Catalog {
	return core.NewCatalog(
		core.Product{ID: 1, Title: "red shoes", Category: "footwear", Price: 50, Rating: 4.5, ReviewsCount: 10},
		core.Product{ID: 2, Title: "blue shoes", Category: "footwear", Price: 55, Rating: 4.0, ReviewsCount: 5},
		core.Product{ID: 3, Title: "laptop", Category: "electronics", Price: 900, Rating: 4.8, ReviewsCount: 200},
	)
}

func TestBuild(t *testing.T) {
	m, err := Build(context.Background(), exampleCatalog())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if !reflect.DeepEqual(m.IDs(), []int64{1, 2, 3}) {
		t.Errorf("IDs() = %v", m.IDs())
	}
	for id, wantRow := range map[int64]int{1: 0, 2: 1, 3: 2} {
		if row, ok := m.Row(id); !ok || row != wantRow {
			t.Errorf("Row(%d) = %d, %v; want %d", id, row, ok, wantRow)
		}
	}
	if _, ok := m.Row(999); ok {
		t.Error("Row(999) should not resolve")
	}
	r, c := m.Features().Dims()
	if r != 3 || c != m.Dims() {
		t.Errorf("Features().Dims() = %d×%d, want 3×%d", r, c, m.Dims())
	}

	tests := []struct {
		i, j int
		want float64
	}{
		{0, 1, 0.4547},
		{0, 2, 0.2758},
		{1, 2, 0.0029},
	}
	for _, tt := range tests {
		if got := m.Similarity(tt.i, tt.j); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("Similarity(%d,%d) = %.4f, want %.4f", tt.i, tt.j, got, tt.want)
		}
	}
}

func TestBuild_SymmetricWithUnitDiagonal(t *testing.T) {
	m, err := Build(context.Background(), exampleCatalog())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i := 0; i < m.Len(); i++ {
		if m.Similarity(i, i) != 1.0 {
			t.Errorf("Similarity(%d,%d) = %v, want exactly 1", i, i, m.Similarity(i, i))
		}
		row := m.SimilarityRow(i)
		for j := 0; j < m.Len(); j++ {
			if m.Similarity(i, j) != m.Similarity(j, i) {
				t.Errorf("Similarity(%d,%d) != Similarity(%d,%d)", i, j, j, i)
			}
			if row[j] < -1 || row[j] > 1 {
				t.Errorf("Similarity(%d,%d) = %v out of range", i, j, row[j])
			}
		}
	}
}

func TestBuild_ZeroVector(t *testing.T) {
	// 第 2 条商品文本全是停用词且数值都是最小值，组合向量为零向量
	cat := core.NewCatalog(
		core.Product{ID: 1, Title: "red shoes", Category: "footwear", Price: 10, Rating: 4, ReviewsCount: 5},
		core.Product{ID: 2, Title: "the", Category: "of"},
		core.Product{ID: 3, Title: "blue shoes", Category: "footwear", Price: 20, Rating: 5, ReviewsCount: 10},
	)
	m, err := Build(context.Background(), cat)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for j := 0; j < m.Len(); j++ {
		if got := m.Similarity(1, j); got != 0 {
			t.Errorf("Similarity(1,%d) = %v, want 0", j, got)
		}
	}
	if m.Similarity(0, 0) != 1 {
		t.Errorf("Similarity(0,0) = %v, want 1", m.Similarity(0, 0))
	}
}

func TestBuild_SchemaErrors(t *testing.T) {
	missingCategory := exampleCatalog()
	missingCategory.Columns = []string{
		core.FieldID, core.FieldTitle, core.FieldPrice, core.FieldRating, core.FieldReviewsCount,
	}
	_, err := Build(context.Background(), missingCategory)
	if !core.IsSchema(err) {
		t.Fatalf("Build() error = %v, want SchemaError", err)
	}
	if de := core.GetDomainError(err); !reflect.DeepEqual(de.Missing, []string{core.FieldCategory}) {
		t.Errorf("Missing = %v, want [category]", de.Missing)
	}

	dup := core.NewCatalog(
		core.Product{ID: 1, Title: "red shoes", Category: "footwear"},
		core.Product{ID: 1, Title: "blue shoes", Category: "footwear"},
	)
	if _, err := Build(context.Background(), dup); !core.IsSchema(err) {
		t.Errorf("Build() duplicate ids error = %v, want SchemaError", err)
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	cat := core.NewCatalog(core.Product{ID: 1, Title: "the"}, core.Product{ID: 2})
	if _, err := Build(context.Background(), cat); !core.IsEmptyCorpus(err) {
		t.Errorf("Build() error = %v, want EmptyCorpusError", err)
	}
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, exampleCatalog()); err != context.Canceled {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuild_Options(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cat := core.NewCatalog(
		core.Product{ID: 1, Title: "the shoes", Category: "footwear"},
		core.Product{ID: 2, Title: "the hat", Category: "hats"},
	)
	m, err := Build(context.Background(), cat, WithStopWords(false), WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !m.TrainedAt().Equal(at) {
		t.Errorf("TrainedAt() = %v, want %v", m.TrainedAt(), at)
	}
	found := false
	for _, term := range m.Vocabulary().Terms {
		if term == "the" {
			found = true
		}
	}
	if !found {
		t.Errorf("stop word kept when disabled: %v", m.Vocabulary().Terms)
	}
}

func TestBuild_IsolatedFromCatalog(t *testing.T) {
	stock, rating := 5, 4.5
	cat := exampleCatalog()
	cat.Products[0].Stock = &stock
	cat.Products[0].SellerRating = &rating
	cat = core.NewCatalog(cat.Products...)

	m, err := Build(context.Background(), cat)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	before := m.Parts()

	stock, rating = 999, 1
	cat.Products[0].Title = "changed"
	cat.Products[1].Price = 1e6

	p := m.Product(0)
	if *p.Stock != 5 || *p.SellerRating != 4.5 || p.Title != "red shoes" {
		t.Errorf("model changed with the catalog: %+v stock=%d rating=%v", p, *p.Stock, *p.SellerRating)
	}
	if !reflect.DeepEqual(before, m.Parts()) {
		t.Error("Parts() changed after mutating the catalog")
	}

	// 返回值同样不能回写模型
	*p.Stock = 42
	products := m.Products()
	*products[0].Stock = 43
	products[0].Title = "mutated"
	if got := m.Product(0); *got.Stock != 5 || got.Title != "red shoes" {
		t.Errorf("accessor results alias model state: stock=%d title=%q", *got.Stock, got.Title)
	}

	restored, err := Restore(before)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	*before.Products[0].Stock = 7
	if got := restored.Product(0); *got.Stock != 5 {
		t.Errorf("restored model aliases parts: stock=%d", *got.Stock)
	}
}

func TestRestore(t *testing.T) {
	m, err := Build(context.Background(), exampleCatalog())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	restored, err := Restore(m.Parts())
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	for i := 0; i < m.Len(); i++ {
		if !reflect.DeepEqual(m.SimilarityRow(i), restored.SimilarityRow(i)) {
			t.Errorf("row %d differs after restore", i)
		}
	}

	tests := []struct {
		name   string
		mutate func(p *Parts)
	}{
		{"no products", func(p *Parts) { p.Products = nil }},
		{"short index", func(p *Parts) { p.IDs = p.IDs[:2] }},
		{"index mismatch", func(p *Parts) { p.IDs[0] = 42 }},
		{"ragged features", func(p *Parts) { p.Features[1] = p.Features[1][:1] }},
		{"missing features", func(p *Parts) { p.Features = nil }},
		{"short similarity", func(p *Parts) { p.Similarity = p.Similarity[:3] }},
		{"similarity out of range", func(p *Parts) { p.Similarity[1] = 2 }},
		{"empty vocabulary", func(p *Parts) { p.Vocabulary.Terms = nil }},
		{"renamed feature", func(p *Parts) { p.FeatureNames[0] = "bogus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.Parts()
			tt.mutate(&p)
			if _, err := Restore(p); !core.IsCorruptModel(err) {
				t.Errorf("Restore() error = %v, want CorruptModelError", err)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
