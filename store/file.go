package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rushteam/prodsim/core"
)

// FileStore 把每个 key 保存为目录下的一个文件。
// 写入先落到同目录的临时文件，fsync 并关闭后再 rename 覆盖目标，
// 因此读者只会看到完整的旧值或新值。不支持 TTL。
type FileStore struct {
	dir string
}

// NewFileStore 创建文件存储，目录不存在时自动创建。
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: file store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Name() string { return "file" }

// Path 返回 key 对应的文件路径。
func (f *FileStore) Path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key))
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrStoreNotFound
	}
	return data, err
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte, ttl ...int) (err error) {
	if len(ttl) > 0 && ttl[0] > 0 {
		return core.ErrStoreNotSupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("store: sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), f.Path(key)); err != nil {
		return fmt.Errorf("store: rename to %s: %w", f.Path(key), err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileStore) Close() error { return nil }

var _ core.Store = (*FileStore)(nil)
