package filter

import (
	"fmt"

	"github.com/rushteam/prodsim/core"
)

// Apply 按顺序执行过滤器，保留所有过滤器都不过滤的候选，保持原有顺序。
// 任一过滤器出错时立即返回该错误，不返回降级结果。
func Apply(source core.ProductView, items []core.Recommendation, filters ...Filter) ([]core.Recommendation, error) {
	if len(filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]core.Recommendation, 0, len(items))
	for _, item := range items {
		keep := true
		for _, f := range filters {
			if f == nil {
				continue
			}
			drop, err := f.ShouldFilter(source, item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name(), err)
			}
			if drop {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}
