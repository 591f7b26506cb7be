// Package similarity 负责构建全量两两余弦相似度索引。
//
// 复杂度：时间 O(N²·D)，内存 O(N²)。不做近似最近邻，目录变化需整体重建。
package similarity

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/feature"
)

type buildOptions struct {
	logger    zerolog.Logger
	stopWords bool
	now       func() time.Time
}

// BuildOption 构建选项
type BuildOption func(*buildOptions)

// WithLogger 设置构建日志
func WithLogger(logger zerolog.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithStopWords 设置文本特征是否剔除英文停用词
func WithStopWords(enabled bool) BuildOption {
	return func(o *buildOptions) {
		o.stopWords = enabled
	}
}

// WithClock 设置训练时间来源（测试用）
func WithClock(now func() time.Time) BuildOption {
	return func(o *buildOptions) {
		o.now = now
	}
}

// Build 从目录构建模型：
//  1. 校验必需字段与 ID 唯一性
//  2. 按输入顺序建立 ID -> 行号映射
//  3. 抽取组合特征矩阵 (N×D)
//  4. 计算余弦相似度矩阵 (N×N)
//
// 任何一步失败都不会产生部分模型。
func Build(ctx context.Context, catalog core.Catalog, opts ...BuildOption) (*Model, error) {
	o := buildOptions{logger: zerolog.Nop(), stopWords: true, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()

	if missing := catalog.MissingRequired(); len(missing) > 0 {
		return nil, core.NewSchemaError(missing)
	}
	n := catalog.Len()
	ids := make([]int64, n)
	index := make(map[int64]int, n)
	for row := range catalog.Products {
		id := catalog.Products[row].ID
		if _, dup := index[id]; dup {
			return nil, core.NewDuplicateIDError(id)
		}
		index[id] = row
		ids[row] = id
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extracted, err := feature.Extract(catalog, feature.WithStopWords(o.stopWords))
	if err != nil {
		return nil, err
	}
	d := extracted.Dim()
	o.logger.Debug().
		Int("items", n).
		Int("terms", extracted.Vectorizer.Size()).
		Strs("numeric", extracted.Numeric.Columns).
		Msg("features extracted")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := mat.NewDense(n, d, nil)
	for i, row := range extracted.Rows {
		features.SetRow(i, row)
	}
	sim := cosineMatrix(features)

	o.logger.Info().
		Int("items", n).
		Int("dims", d).
		Dur("elapsed", time.Since(start)).
		Msg("similarity index built")

	return &Model{
		columns:      append([]string(nil), catalog.Columns...),
		products:     core.CloneProducts(catalog.Products),
		ids:          ids,
		index:        index,
		featureNames: extracted.Names,
		features:     features,
		sim:          sim,
		vocab:        extracted.Vectorizer.Vocabulary(),
		trainedAt:    o.now(),
	}, nil
}

// cosineMatrix 计算行向量两两余弦相似度。
// 零向量与任何行（包括自身）的相似度为 0；非零行对角线精确为 1。
func cosineMatrix(x *mat.Dense) *mat.SymDense {
	n, d := x.Dims()
	unit := mat.NewDense(n, d, nil)
	nonZero := make([]bool, n)
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, x)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
			nonZero[i] = true
		}
		unit.SetRow(i, row)
	}

	sim := mat.NewSymDense(n, nil)
	sim.SymOuterK(1, unit)
	for i := 0; i < n; i++ {
		if nonZero[i] {
			sim.SetSym(i, i, 1)
		} else {
			sim.SetSym(i, i, 0)
		}
		for j := i + 1; j < n; j++ {
			sim.SetSym(i, j, clamp(sim.At(i, j)))
		}
	}
	return sim
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

// CosineSimilarity 计算两个向量的余弦相似度；任一向量范数为 0 时返回 0。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(a, b) / (na * nb))
}
