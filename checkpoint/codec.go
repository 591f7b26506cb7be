// Package checkpoint 负责把训练好的模型序列化为私有快照格式，并通过 core.Store 保存与恢复。
//
// 格式：8 字节魔数 "PSIMCKPT" + 1 字节格式版本 + JSON 文档。
// JSON 文档包含五个必需段：products / index / features / similarity / vocabulary。
// 不承诺跨版本兼容。
package checkpoint

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/feature"
	"github.com/rushteam/prodsim/similarity"
)

const (
	magic = "PSIMCKPT"

	// FormatVersion 是当前快照格式版本
	FormatVersion byte = 1
)

type snapshot struct {
	Columns      []string            `json:"columns"`
	Products     []core.Product      `json:"products"`
	Index        []int64             `json:"index"`
	FeatureNames []string            `json:"feature_names"`
	Features     [][]float64         `json:"features"`
	Similarity   []float64           `json:"similarity"` // 上三角，行优先
	Vocabulary   *feature.Vocabulary `json:"vocabulary"`
	TrainedAt    time.Time           `json:"trained_at"`
}

// Marshal 把模型编码为快照。model 为 nil 时返回 ErrUntrainedModel。
func Marshal(model *similarity.Model) ([]byte, error) {
	if model == nil {
		return nil, core.ErrUntrainedModel
	}
	p := model.Parts()
	body, err := json.Marshal(snapshot{
		Columns:      p.Columns,
		Products:     p.Products,
		Index:        p.IDs,
		FeatureNames: p.FeatureNames,
		Features:     p.Features,
		Similarity:   p.Similarity,
		Vocabulary:   &p.Vocabulary,
		TrainedAt:    p.TrainedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: encode: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 1 + len(body))
	buf.WriteString(magic)
	buf.WriteByte(FormatVersion)
	buf.Write(body)
	return buf.Bytes(), nil
}

// Unmarshal 解码快照并重建模型。结构不合法时返回 CorruptModelError。
func Unmarshal(blob []byte) (*similarity.Model, error) {
	if len(blob) < len(magic)+1 || string(blob[:len(magic)]) != magic {
		return nil, core.NewCorruptModelError("not a model checkpoint", nil)
	}
	if v := blob[len(magic)]; v != FormatVersion {
		return nil, core.NewCorruptModelError(fmt.Sprintf("unsupported format version %d", v), nil)
	}

	var s snapshot
	if err := json.Unmarshal(blob[len(magic)+1:], &s); err != nil {
		return nil, core.NewCorruptModelError("undecodable document", err)
	}
	switch {
	case s.Products == nil:
		return nil, core.NewCorruptModelError("products section is missing", nil)
	case s.Index == nil:
		return nil, core.NewCorruptModelError("index section is missing", nil)
	case s.Features == nil:
		return nil, core.NewCorruptModelError("features section is missing", nil)
	case s.Similarity == nil:
		return nil, core.NewCorruptModelError("similarity section is missing", nil)
	case s.Vocabulary == nil:
		return nil, core.NewCorruptModelError("vocabulary section is missing", nil)
	}

	return similarity.Restore(similarity.Parts{
		Columns:      s.Columns,
		Products:     s.Products,
		IDs:          s.Index,
		FeatureNames: s.FeatureNames,
		Features:     s.Features,
		Similarity:   s.Similarity,
		Vocabulary:   *s.Vocabulary,
		TrainedAt:    s.TrainedAt,
	})
}
