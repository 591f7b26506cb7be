package similarity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/feature"
)

// Model 是一次训练的完整产物（TrainedModel）。
// 构建完成后只读，可被任意数量的查询并发共享。
type Model struct {
	columns      []string
	products     []core.Product
	ids          []int64       // row -> id
	index        map[int64]int // id -> row
	featureNames []string
	features     *mat.Dense
	sim          *mat.SymDense
	vocab        feature.Vocabulary
	trainedAt    time.Time
}

// Len 返回商品数 N。
func (m *Model) Len() int { return len(m.products) }

// Row 返回商品 ID 对应的行号。
func (m *Model) Row(id int64) (int, bool) {
	row, ok := m.index[id]
	return row, ok
}

// Product 返回某一行商品记录的副本。
func (m *Model) Product(row int) core.Product { return m.products[row].Clone() }

// View 返回某一行商品的公开视图。
func (m *Model) View(row int) core.ProductView { return m.products[row].View() }

// Similarity 返回 sim(i, j)。
func (m *Model) Similarity(i, j int) float64 { return m.sim.At(i, j) }

// SimilarityRow 返回第 i 行的相似度副本。
func (m *Model) SimilarityRow(i int) []float64 {
	return mat.Row(nil, i, m.sim)
}

// Features 返回 N×D 组合特征矩阵（只读）。
func (m *Model) Features() mat.Matrix { return m.features }

// Dims 返回组合特征维度 D。
func (m *Model) Dims() int { return len(m.featureNames) }

func (m *Model) FeatureNames() []string { return append([]string(nil), m.featureNames...) }

func (m *Model) Vocabulary() feature.Vocabulary {
	return feature.Vocabulary{
		Terms:     append([]string(nil), m.vocab.Terms...),
		IDF:       append([]float64(nil), m.vocab.IDF...),
		StopWords: m.vocab.StopWords,
		Documents: m.vocab.Documents,
	}
}

func (m *Model) Products() []core.Product { return core.CloneProducts(m.products) }

func (m *Model) IDs() []int64 { return append([]int64(nil), m.ids...) }

func (m *Model) Columns() []string { return append([]string(nil), m.columns...) }

func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Parts 是 Model 的可持久化分解形式。
// Similarity 按行优先存储上三角（含对角线），长度 N*(N+1)/2。
type Parts struct {
	Columns      []string
	Products     []core.Product
	IDs          []int64
	FeatureNames []string
	Features     [][]float64
	Similarity   []float64
	Vocabulary   feature.Vocabulary
	TrainedAt    time.Time
}

// Parts 导出模型的全部状态。
func (m *Model) Parts() Parts {
	n := m.Len()
	features := make([][]float64, n)
	for i := range features {
		features[i] = mat.Row(nil, i, m.features)
	}
	packed := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			packed = append(packed, m.sim.At(i, j))
		}
	}
	return Parts{
		Columns:      m.Columns(),
		Products:     m.Products(),
		IDs:          m.IDs(),
		FeatureNames: m.FeatureNames(),
		Features:     features,
		Similarity:   packed,
		Vocabulary:   m.Vocabulary(),
		TrainedAt:    m.trainedAt,
	}
}

// Restore 从持久化的分解形式重建模型，并做结构校验。
// 任何不一致都返回 CorruptModelError。
func Restore(p Parts) (*Model, error) {
	n := len(p.Products)
	if n == 0 {
		return nil, core.NewCorruptModelError("products section is empty", nil)
	}
	if len(p.IDs) != n {
		return nil, core.NewCorruptModelError(fmt.Sprintf("index has %d entries for %d products", len(p.IDs), n), nil)
	}
	index := make(map[int64]int, n)
	for row, id := range p.IDs {
		if p.Products[row].ID != id {
			return nil, core.NewCorruptModelError(fmt.Sprintf("index row %d maps to id %d but product is %d", row, id, p.Products[row].ID), nil)
		}
		if _, dup := index[id]; dup {
			return nil, core.NewCorruptModelError(fmt.Sprintf("index has duplicate id %d", id), nil)
		}
		index[id] = row
	}

	vectorizer, err := feature.RestoreVectorizer(p.Vocabulary)
	if err != nil {
		return nil, core.NewCorruptModelError("vocabulary section is invalid", err)
	}
	d := len(p.FeatureNames)
	if d < vectorizer.Size() {
		return nil, core.NewCorruptModelError(fmt.Sprintf("%d feature names for %d vocabulary terms", d, vectorizer.Size()), nil)
	}
	for i, term := range vectorizer.Terms() {
		if p.FeatureNames[i] != feature.TextFeaturePrefix+term {
			return nil, core.NewCorruptModelError(fmt.Sprintf("feature name %q does not match term %q", p.FeatureNames[i], term), nil)
		}
	}
	for _, name := range p.FeatureNames[vectorizer.Size():] {
		if !strings.HasSuffix(name, feature.NormalizedSuffix) {
			return nil, core.NewCorruptModelError(fmt.Sprintf("unexpected numeric feature %q", name), nil)
		}
	}

	if len(p.Features) != n {
		return nil, core.NewCorruptModelError(fmt.Sprintf("features section has %d rows for %d products", len(p.Features), n), nil)
	}
	features := mat.NewDense(n, d, nil)
	for i, row := range p.Features {
		if len(row) != d {
			return nil, core.NewCorruptModelError(fmt.Sprintf("features row %d has %d columns, want %d", i, len(row), d), nil)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewCorruptModelError(fmt.Sprintf("features row %d has a non-finite value", i), nil)
			}
		}
		features.SetRow(i, row)
	}

	if want := n * (n + 1) / 2; len(p.Similarity) != want {
		return nil, core.NewCorruptModelError(fmt.Sprintf("similarity section has %d values, want %d", len(p.Similarity), want), nil)
	}
	sim := mat.NewSymDense(n, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := p.Similarity[k]
			k++
			if math.IsNaN(v) || v < -1 || v > 1 {
				return nil, core.NewCorruptModelError(fmt.Sprintf("similarity (%d,%d) = %v is out of range", i, j, v), nil)
			}
			sim.SetSym(i, j, v)
		}
	}

	return &Model{
		columns:      append([]string(nil), p.Columns...),
		products:     core.CloneProducts(p.Products),
		ids:          append([]int64(nil), p.IDs...),
		index:        index,
		featureNames: append([]string(nil), p.FeatureNames...),
		features:     features,
		sim:          sim,
		vocab:        vectorizer.Vocabulary(),
		trainedAt:    p.TrainedAt,
	}, nil
}
