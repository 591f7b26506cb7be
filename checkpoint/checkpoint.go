package checkpoint

import (
	"context"
	"fmt"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/similarity"
)

// Save 把模型快照写入 store 的 key。
func Save(ctx context.Context, store core.Store, key string, model *similarity.Model) error {
	blob, err := Marshal(model)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, blob); err != nil {
		return fmt.Errorf("checkpoint: save %q to %s: %w", key, store.Name(), err)
	}
	return nil
}

// Load 从 store 读取并恢复模型。
// key 不存在时返回的错误满足 core.IsStoreNotFound，调用方可据此决定重新训练。
func Load(ctx context.Context, store core.Store, key string) (*similarity.Model, error) {
	blob, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: load %q from %s: %w", key, store.Name(), err)
	}
	return Unmarshal(blob)
}
