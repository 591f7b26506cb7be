package feature

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/prodsim/core"
)

// Vectorizer 是 TF-IDF 文本向量化器。
//
// 公式：
//
//	idf(t)    = ln((1 + n) / (1 + df(t))) + 1
//	w(t, d)   = count(t, d) * idf(t)
//
// 每行向量做 L2 归一化。词表在 Fit 时冻结，Transform 时未见过的词不产生任何影响。
type Vectorizer struct {
	terms     []string       // 按字典序排列的词表
	index     map[string]int // term -> 列号
	idf       []float64
	stopWords bool
	documents int
}

// Vocabulary 是向量化器的可持久化状态。
type Vocabulary struct {
	Terms     []string  `json:"terms"`
	IDF       []float64 `json:"idf"`
	StopWords bool      `json:"stop_words"`
	Documents int       `json:"documents"`
}

// VectorizerOption 向量化器配置选项
type VectorizerOption func(*Vectorizer)

// WithStopWords 设置是否剔除英文停用词（默认剔除）
func WithStopWords(enabled bool) VectorizerOption {
	return func(v *Vectorizer) {
		v.stopWords = enabled
	}
}

// FitVectorizer 在整个语料上学习词表与 idf。
// 若没有任何文档产生 token，返回 core.ErrEmptyCorpus。
func FitVectorizer(corpus []string, opts ...VectorizerOption) (*Vectorizer, error) {
	v := &Vectorizer{stopWords: true}
	for _, opt := range opts {
		opt(v)
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(NormalizeText(doc), v.stopWords) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	v.documents = len(corpus)
	v.terms = make([]string, 0, len(df))
	for term := range df {
		v.terms = append(v.terms, term)
	}
	sort.Strings(v.terms)

	n := float64(v.documents)
	v.index = make(map[string]int, len(v.terms))
	v.idf = make([]float64, len(v.terms))
	for i, term := range v.terms {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v, nil
}

// RestoreVectorizer 从持久化的词表恢复向量化器。
func RestoreVectorizer(vocab Vocabulary) (*Vectorizer, error) {
	if len(vocab.Terms) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	if len(vocab.Terms) != len(vocab.IDF) {
		return nil, fmt.Errorf("vocabulary has %d terms but %d idf weights", len(vocab.Terms), len(vocab.IDF))
	}
	v := &Vectorizer{
		terms:     append([]string(nil), vocab.Terms...),
		idf:       append([]float64(nil), vocab.IDF...),
		index:     make(map[string]int, len(vocab.Terms)),
		stopWords: vocab.StopWords,
		documents: vocab.Documents,
	}
	for i, term := range v.terms {
		if i > 0 && v.terms[i-1] >= term {
			return nil, fmt.Errorf("vocabulary terms are not strictly sorted at %d", i)
		}
		if w := v.idf[i]; math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return nil, fmt.Errorf("invalid idf weight %v for term %q", w, term)
		}
		v.index[term] = i
	}
	return v, nil
}

// Vocabulary 返回可持久化状态的副本。
func (v *Vectorizer) Vocabulary() Vocabulary {
	return Vocabulary{
		Terms:     append([]string(nil), v.terms...),
		IDF:       append([]float64(nil), v.idf...),
		StopWords: v.stopWords,
		Documents: v.documents,
	}
}

// Size 返回词表大小（文本向量维度）。
func (v *Vectorizer) Size() int { return len(v.terms) }

// Terms 返回词表（只读）。
func (v *Vectorizer) Terms() []string { return v.terms }

// Transform 把文档转换为稠密 TF-IDF 向量（长度为词表大小，L2 归一化）。
func (v *Vectorizer) Transform(doc string) []float64 {
	row := make([]float64, len(v.terms))
	for _, tok := range Tokenize(NormalizeText(doc), v.stopWords) {
		if col, ok := v.index[tok]; ok {
			row[col]++
		}
	}
	floats.Mul(row, v.idf)
	if norm := floats.Norm(row, 2); norm > 0 {
		floats.Scale(1/norm, row)
	}
	return row
}

// TransformAll 批量转换。
func (v *Vectorizer) TransformAll(corpus []string) [][]float64 {
	rows := make([][]float64, len(corpus))
	for i, doc := range corpus {
		rows[i] = v.Transform(doc)
	}
	return rows
}
