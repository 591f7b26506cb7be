package filter

import (
	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选保留，其余过滤。
//
// 可用变量：
//   - item：候选商品，字段 product_id / title / category / price / rating / reviews_count / similarity_score
//   - source：源商品，字段同上（无 similarity_score）
//
// 示例：`item.price < source.price * 1.5 && item.rating >= 4.0`
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式
func (f *ExprFilter) Expr() string { return f.program.String() }

func (f *ExprFilter) ShouldFilter(source core.ProductView, candidate core.Recommendation) (bool, error) {
	item := viewVars(candidate.ProductView)
	item["similarity_score"] = candidate.SimilarityScore
	keep, err := f.program.Evaluate(item, viewVars(source))
	if err != nil {
		return false, err
	}
	return !keep, nil
}

func viewVars(v core.ProductView) map[string]any {
	return map[string]any{
		"product_id":    v.ProductID,
		"title":         v.Title,
		"category":      v.Category,
		"price":         v.Price,
		"rating":        v.Rating,
		"reviews_count": int64(v.ReviewsCount),
	}
}
