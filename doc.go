// Package prodsim 是基于内容的商品相似度引擎。
//
// 设计要点：
// - 特征：标题与类别的 TF-IDF 文本向量拼接 min-max 归一化的数值特征
// - 相似度：训练时一次性计算全量余弦相似度矩阵，查询只做排序与过滤
// - 发布：模型只读，通过原子指针整体替换，查询无锁
// - 快照：模型可序列化到 file / redis / badger 存储，启动时恢复
package prodsim

import (
	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/filter"
	"github.com/rushteam/prodsim/recommend"
	"github.com/rushteam/prodsim/similarity"
)

// 轻量 facade：便于用户直接 import "prodsim" 使用核心抽象。
type (
	Engine         = recommend.Engine
	Config         = recommend.Config
	Model          = similarity.Model
	Catalog        = core.Catalog
	Product        = core.Product
	Recommendation = core.Recommendation
	Filter         = filter.Filter
)

var (
	NewEngine     = recommend.NewEngine
	DefaultConfig = recommend.DefaultConfig
	NewCatalog    = core.NewCatalog
)
