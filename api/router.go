// Package api 把查询引擎暴露为 HTTP 接口（chi 路由）。
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/filter"
	"github.com/rushteam/prodsim/recommend"
)

// Querier 是 HTTP 层依赖的查询能力，由 recommend.Engine 实现。
// 源商品与结果必须来自同一个模型快照。
type Querier interface {
	GetRecommendationsWithSource(id int64, k int) (core.ProductView, []core.Recommendation, error)
	GetSimilarProductsWithSource(id int64, byCategory bool, k int, filters ...filter.Filter) (core.ProductView, []core.Recommendation, error)
	GetCategoryDistribution() (core.CategoryDistribution, error)
	Status() recommend.Status
}

var _ Querier = (*recommend.Engine)(nil)

// DefaultMaxResults 是 n_recommendations 的默认上限。
const DefaultMaxResults = 100

// Handler 持有 HTTP 处理函数的依赖。
type Handler struct {
	engine     Querier
	logger     zerolog.Logger
	maxResults int
}

// HandlerOption Handler 配置选项
type HandlerOption func(*Handler)

// WithMaxResults 设置 n_recommendations 上限，超出时返回 400。
func WithMaxResults(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxResults = n
		}
	}
}

// NewHandler 创建 Handler。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Querier, logger zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:     engine,
		logger:     logger.With().Str("component", "api").Logger(),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter 配置全部路由。tokens 为空时不做鉴权。
func NewRouter(h *Handler, tokens []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", h.Root)
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(tokens))
		r.Get("/products/{id}/recommendations", h.Recommendations)
		r.Get("/products/{id}/similar", h.Similar)
		r.Get("/metrics/category_distribution", h.CategoryDistribution)
	})
	return r
}
