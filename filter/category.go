package filter

import "github.com/rushteam/prodsim/core"

// CategoryFilter 过滤掉与源商品类别不同的候选（精确匹配）。
type CategoryFilter struct{}

func (CategoryFilter) Name() string {
	return "filter.category"
}

func (CategoryFilter) ShouldFilter(source core.ProductView, candidate core.Recommendation) (bool, error) {
	return candidate.Category != source.Category, nil
}
