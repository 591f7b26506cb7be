package feature

import (
	"strings"
	"testing"

	"github.com/rushteam/prodsim/core"
)

func TestExtract(t *testing.T) {
	cat := core.NewCatalog(
		core.Product{ID: 1, Title: "red shoes", Category: "footwear", Price: 50, Rating: 4.5, ReviewsCount: 10},
		core.Product{ID: 2, Title: "blue shoes", Category: "footwear", Price: 55, Rating: 4.0, ReviewsCount: 5},
		core.Product{ID: 3, Title: "laptop", Category: "electronics", Price: 900, Rating: 4.8, ReviewsCount: 200},
	)

	f, err := Extract(cat)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	text := f.Vectorizer.Size()
	if f.Dim() != text+3 {
		t.Fatalf("Dim() = %d, want %d text + 3 numeric", f.Dim(), text)
	}
	for i, name := range f.Names[:text] {
		if !strings.HasPrefix(name, TextFeaturePrefix) {
			t.Errorf("Names[%d] = %q, want text prefix", i, name)
		}
	}
	wantTail := []string{"price_normalized", "rating_normalized", "reviews_count_normalized"}
	for i, name := range wantTail {
		if f.Names[text+i] != name {
			t.Errorf("Names[%d] = %q, want %q", text+i, f.Names[text+i], name)
		}
	}
	for i, row := range f.Rows {
		if len(row) != f.Dim() {
			t.Errorf("row %d has %d columns, want %d", i, len(row), f.Dim())
		}
	}
	if got := f.Rows[2][text]; got != 1 {
		t.Errorf("laptop price_normalized = %v, want 1", got)
	}
}

func TestExtract_EmptyCorpus(t *testing.T) {
	cat := core.NewCatalog(core.Product{ID: 1}, core.Product{ID: 2})
	if _, err := Extract(cat); !core.IsEmptyCorpus(err) {
		t.Errorf("Extract() error = %v, want EmptyCorpusError", err)
	}
}
