// Package store 提供 core.Store 的实现：memory、file、redis、badger。
// 接口定义在 core 包。
package store

import (
	"context"
	"fmt"

	"github.com/rushteam/prodsim/core"
)

// 后端名称
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config 选择并配置存储后端。
type Config struct {
	Backend       string `koanf:"backend"`
	Dir           string `koanf:"dir"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	BadgerPath    string `koanf:"badger_path"`
}

// Open 按配置打开存储，调用方负责 Close。
func Open(ctx context.Context, cfg Config) (core.Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(cfg.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case BackendBadger:
		return OpenBadgerStore(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
