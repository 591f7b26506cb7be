package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rushteam/prodsim/core"
)

// BadgerStore 是基于嵌入式 BadgerDB 的 Store，单机持久化，无需外部服务。
type BadgerStore struct {
	db     *badger.DB
	prefix string
	owned  bool
}

// NewBadgerStore 使用已打开的 DB；Close 不会关闭该 DB。
func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{db: db, prefix: prefix}
}

// OpenBadgerStore 打开 path 处的 BadgerDB；path 为空时使用内存模式。
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger %q: %w", path, err)
	}
	return &BadgerStore{db: db, owned: true}, nil
}

func (b *BadgerStore) Name() string { return "badger" }

func (b *BadgerStore) key(key string) []byte {
	return []byte(b.prefix + key)
}

func (b *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrStoreNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BadgerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(b.key(key), value)
		if len(ttl) > 0 && ttl[0] > 0 {
			e = e.WithTTL(time.Duration(ttl[0]) * time.Second)
		}
		return txn.SetEntry(e)
	})
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(b.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (b *BadgerStore) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}

var _ core.Store = (*BadgerStore)(nil)
