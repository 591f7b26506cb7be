package filter

import (
	"github.com/rushteam/prodsim/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的商品。
type BlacklistFilter struct {
	ids map[int64]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(ids ...int64) *BlacklistFilter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &BlacklistFilter{ids: set}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(_ core.ProductView, candidate core.Recommendation) (bool, error) {
	_, ok := f.ids[candidate.ProductID]
	return ok, nil
}
