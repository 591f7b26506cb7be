package feature

import (
	"github.com/rushteam/prodsim/core"
)

// TextFeaturePrefix 是文本特征列名前缀。
const TextFeaturePrefix = "tfidf:"

// Features 是一次训练的组合特征（CompositeFeatureVector 表）。
// 每行 = 稠密文本向量 + 归一化数值列；列顺序在一次训练内固定。
type Features struct {
	Names      []string
	Rows       [][]float64
	Vectorizer *Vectorizer
	Numeric    NumericTable
}

// Dim 返回组合向量维度。
func (f *Features) Dim() int { return len(f.Names) }

// Extract 从目录抽取组合特征：
//  1. 构建语料并拟合 TF-IDF
//  2. 对目录中出现的数值字段做 Min-Max 归一化
//  3. 按 [文本, 数值] 顺序拼接
func Extract(catalog core.Catalog, opts ...VectorizerOption) (*Features, error) {
	corpus := BuildCorpus(catalog.Products)
	vectorizer, err := FitVectorizer(corpus, opts...)
	if err != nil {
		return nil, err
	}
	text := vectorizer.TransformAll(corpus)
	numeric := NormalizeNumeric(catalog.Products, PresentNumericFields(catalog))

	names := make([]string, 0, vectorizer.Size()+len(numeric.Columns))
	for _, term := range vectorizer.Terms() {
		names = append(names, TextFeaturePrefix+term)
	}
	names = append(names, numeric.Columns...)

	rows := make([][]float64, len(text))
	for i := range text {
		row := make([]float64, 0, len(names))
		row = append(row, text[i]...)
		row = append(row, numeric.Values[i]...)
		rows[i] = row
	}

	return &Features{
		Names:      names,
		Rows:       rows,
		Vectorizer: vectorizer,
		Numeric:    numeric,
	}, nil
}
