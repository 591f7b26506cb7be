// Package recommend 是相似商品查询引擎。
//
// 引擎持有一个只读的 similarity.Model，通过原子指针发布。查询不加锁，
// 每次查询只读取一次指针，因此重训期间的查询要么看到旧模型，要么看到新模型。
package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/prodsim/checkpoint"
	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/filter"
	"github.com/rushteam/prodsim/similarity"
)

// CatalogLoader 加载训练目录。
type CatalogLoader func(ctx context.Context) (core.Catalog, error)

// Status 是引擎状态快照。
type Status struct {
	Trained   bool      `json:"trained"`
	Version   int64     `json:"version"`
	Items     int       `json:"items"`
	Dims      int       `json:"dims"`
	TrainedAt time.Time `json:"trained_at,omitempty"`
}

// Engine 是相似商品查询引擎，可并发使用。
type Engine struct {
	config *Config
	logger zerolog.Logger

	model   atomic.Pointer[similarity.Model]
	version atomic.Int64

	// 训练是单线程的：同一时刻只有一个 Build
	trainMu sync.Mutex
	group   singleflight.Group
}

// NewEngine 创建查询引擎。cfg 为 nil 时使用 DefaultConfig。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Train 在目录上构建新模型并原子发布。构建失败时不发布任何东西，旧模型继续服务。
func (e *Engine) Train(ctx context.Context, catalog core.Catalog) (*similarity.Model, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()
	m, err := similarity.Build(ctx, catalog,
		similarity.WithLogger(e.logger),
		similarity.WithStopWords(e.config.StopWords),
	)
	if err != nil {
		TrainingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		e.logger.Error().Err(err).Int("items", catalog.Len()).Msg("training failed")
		return nil, err
	}
	TrainingDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	e.publish(m)
	return m, nil
}

// EnsureTrained 在尚无模型时用 loader 训练一次；并发调用者共享同一次训练。
// 共享训练不随任何调用者的 ctx 取消，只继承其 value。
func (e *Engine) EnsureTrained(ctx context.Context, loader CatalogLoader) (*similarity.Model, error) {
	if m := e.model.Load(); m != nil {
		return m, nil
	}
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := e.group.Do("train", func() (any, error) {
		if m := e.model.Load(); m != nil {
			return m, nil
		}
		catalog, err := loader(buildCtx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return e.Train(buildCtx, catalog)
	})
	if err != nil {
		return nil, err
	}
	return v.(*similarity.Model), nil
}

// Publish 安装一个已构建（或从快照恢复）的模型。
func (e *Engine) Publish(m *similarity.Model) error {
	if m == nil {
		return core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "recommend: cannot publish a nil model")
	}
	e.publish(m)
	return nil
}

func (e *Engine) publish(m *similarity.Model) {
	e.model.Store(m)
	v := e.version.Add(1)
	ModelItems.Set(float64(m.Len()))
	ModelVersion.Set(float64(v))
	e.logger.Info().
		Int64("version", v).
		Int("items", m.Len()).
		Int("dims", m.Dims()).
		Msg("model published")
}

// Model 返回当前模型；尚未训练时返回 ErrUntrainedModel。
func (e *Engine) Model() (*similarity.Model, error) {
	m := e.model.Load()
	if m == nil {
		return nil, core.ErrUntrainedModel
	}
	return m, nil
}

// Status 返回引擎状态。
func (e *Engine) Status() Status {
	m := e.model.Load()
	if m == nil {
		return Status{}
	}
	return Status{
		Trained:   true,
		Version:   e.version.Load(),
		Items:     m.Len(),
		Dims:      m.Dims(),
		TrainedAt: m.TrainedAt(),
	}
}

// GetProduct 返回商品的公开视图。
func (e *Engine) GetProduct(id int64) (view core.ProductView, err error) {
	start := time.Now()
	defer func() { observeQuery("product", start, err) }()

	m, err := e.Model()
	if err != nil {
		return core.ProductView{}, err
	}
	return productView(m, id)
}

// GetRecommendations 返回与 id 最相似的 k 个商品（不含自身），按分数降序，
// 分数相同按行号升序。k <= 0 使用 DefaultK；目录不足 k+1 个商品时返回全部其他商品。
func (e *Engine) GetRecommendations(id int64, k int) (recs []core.Recommendation, err error) {
	start := time.Now()
	defer func() { observeQuery("recommendations", start, err) }()

	m, err := e.Model()
	if err != nil {
		return nil, err
	}
	return rank(m, id, e.config.resolveK(k))
}

// GetRecommendationsWithSource 同 GetRecommendations，同时返回源商品视图。
// 两者取自同一个模型快照。
func (e *Engine) GetRecommendationsWithSource(id int64, k int) (source core.ProductView, recs []core.Recommendation, err error) {
	start := time.Now()
	defer func() { observeQuery("recommendations", start, err) }()

	m, err := e.Model()
	if err != nil {
		return core.ProductView{}, nil, err
	}
	if source, err = productView(m, id); err != nil {
		return core.ProductView{}, nil, err
	}
	if recs, err = rank(m, id, e.config.resolveK(k)); err != nil {
		return core.ProductView{}, nil, err
	}
	return source, recs, nil
}

// GetSimilarProducts 先取 k*OversampleFactor 个候选，byCategory 时只保留同类别，
// 再依次应用 filters，最后截断到 k。过滤后不足 k 个时不补齐。
func (e *Engine) GetSimilarProducts(id int64, byCategory bool, k int, filters ...filter.Filter) (recs []core.Recommendation, err error) {
	start := time.Now()
	defer func() { observeQuery("similar", start, err) }()

	m, err := e.Model()
	if err != nil {
		return nil, err
	}
	return e.similar(m, id, byCategory, k, filters)
}

// GetSimilarProductsWithSource 同 GetSimilarProducts，同时返回源商品视图。
// 两者取自同一个模型快照。
func (e *Engine) GetSimilarProductsWithSource(id int64, byCategory bool, k int, filters ...filter.Filter) (source core.ProductView, recs []core.Recommendation, err error) {
	start := time.Now()
	defer func() { observeQuery("similar", start, err) }()

	m, err := e.Model()
	if err != nil {
		return core.ProductView{}, nil, err
	}
	if source, err = productView(m, id); err != nil {
		return core.ProductView{}, nil, err
	}
	if recs, err = e.similar(m, id, byCategory, k, filters); err != nil {
		return core.ProductView{}, nil, err
	}
	return source, recs, nil
}

func (e *Engine) similar(m *similarity.Model, id int64, byCategory bool, k int, filters []filter.Filter) ([]core.Recommendation, error) {
	k = e.config.resolveK(k)
	want := k
	if k < m.Len() {
		want = k * e.config.OversampleFactor
	}
	candidates, err := rank(m, id, want)
	if err != nil {
		return nil, err
	}

	row, _ := m.Row(id)
	chain := make([]filter.Filter, 0, len(filters)+1)
	if byCategory {
		chain = append(chain, filter.CategoryFilter{})
	}
	chain = append(chain, filters...)
	candidates, err = filter.Apply(m.View(row), candidates, chain...)
	if err != nil {
		return nil, err
	}
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func productView(m *similarity.Model, id int64) (core.ProductView, error) {
	row, ok := m.Row(id)
	if !ok {
		return core.ProductView{}, core.NewNotFoundError(id)
	}
	return m.View(row), nil
}

// GetCategoryDistribution 返回按类别的商品计数。
func (e *Engine) GetCategoryDistribution() (dist core.CategoryDistribution, err error) {
	start := time.Now()
	defer func() { observeQuery("category_distribution", start, err) }()

	m, err := e.Model()
	if err != nil {
		return core.CategoryDistribution{}, err
	}
	dist = core.CategoryDistribution{
		Distribution:  make(map[string]int),
		TotalProducts: m.Len(),
	}
	for row := 0; row < m.Len(); row++ {
		dist.Distribution[m.View(row).Category]++
	}
	return dist, nil
}

// Save 把当前模型写入存储；尚未训练时返回 ErrUntrainedModel。
func (e *Engine) Save(ctx context.Context, store core.Store, key string) error {
	m, err := e.Model()
	if err != nil {
		return err
	}
	if err := checkpoint.Save(ctx, store, key, m); err != nil {
		return err
	}
	e.logger.Info().Str("store", store.Name()).Str("key", key).Msg("model saved")
	return nil
}

// Load 从存储恢复模型并发布。
func (e *Engine) Load(ctx context.Context, store core.Store, key string) (*similarity.Model, error) {
	m, err := checkpoint.Load(ctx, store, key)
	if err != nil {
		return nil, err
	}
	e.publish(m)
	return m, nil
}

// rank 对模型中除 id 外的所有商品按相似度排序并取前 k 个。
func rank(m *similarity.Model, id int64, k int) ([]core.Recommendation, error) {
	row, ok := m.Row(id)
	if !ok {
		return nil, core.NewNotFoundError(id)
	}
	scores := m.SimilarityRow(row)

	order := make([]int, 0, len(scores))
	for j := range scores {
		if j != row {
			order = append(order, j)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa != sb {
			return sa > sb
		}
		return order[a] < order[b]
	})
	if k < len(order) {
		order = order[:k]
	}

	recs := make([]core.Recommendation, len(order))
	for i, j := range order {
		recs[i] = core.Recommendation{
			ProductView:     m.View(j),
			SimilarityScore: scores[j],
		}
	}
	return recs, nil
}
