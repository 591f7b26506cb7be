// Package config 加载 prodsimd 的分层配置：
//  1. 结构体默认值
//  2. YAML 配置文件（可选）
//  3. 环境变量（PRODSIM_ 前缀，"__" 表示层级，优先级最高）
//
// 例如 PRODSIM_CHECKPOINT__BACKEND=redis 覆盖 checkpoint.backend。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/prodsim/pkg/logging"
	"github.com/rushteam/prodsim/recommend"
	"github.com/rushteam/prodsim/store"
)

const (
	// EnvPrefix 是环境变量前缀
	EnvPrefix = "PRODSIM_"

	// ConfigPathEnvVar 指定配置文件路径
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
)

// DefaultConfigPaths 按顺序查找的配置文件
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/prodsim/config.yaml",
}

// Config 是完整配置。
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Checkpoint CheckpointConfig `koanf:"checkpoint"`
	Recommend  recommend.Config `koanf:"recommend"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Tokens 是允许的 Bearer token；为空时不做鉴权
	Tokens []string `koanf:"tokens"`

	// MaxResults 是单个 HTTP 请求允许的 n_recommendations 上限，超出返回 400
	MaxResults int `koanf:"max_results"`
}

// CatalogConfig 是训练目录来源。
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// CheckpointConfig 是模型快照存储配置。
type CheckpointConfig struct {
	Backend       string `koanf:"backend"`
	Key           string `koanf:"key"`
	Dir           string `koanf:"dir"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	BadgerPath    string `koanf:"badger_path"`

	// Retrain 为 true 时忽略已有快照，启动时总是重新训练
	Retrain bool `koanf:"retrain"`
}

// Store 返回存储后端配置。
func (c CheckpointConfig) Store() store.Config {
	return store.Config{
		Backend:       c.Backend,
		Dir:           c.Dir,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		BadgerPath:    c.BadgerPath,
	}
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxResults:      100,
		},
		Logging: logging.DefaultConfig(),
		Catalog: CatalogConfig{Path: "data/products.csv"},
		Checkpoint: CheckpointConfig{
			Backend: store.BackendFile,
			Key:     "product_recommender",
			Dir:     "models",
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// Load 加载配置。path 为空时依次查找 PRODSIM_CONFIG 与 DefaultConfigPaths，找不到文件时只用默认值与环境变量。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := splitCommaList(k, "server.tokens"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc: PRODSIM_SERVER__ADDR -> server.addr
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar {
		return ""
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// splitCommaList 把环境变量中的逗号分隔字符串转为切片。
func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// Validate 校验配置。
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxResults < 1 {
		return fmt.Errorf("server.max_results must be at least 1, got %d", c.Server.MaxResults)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Checkpoint.Key == "" {
		return fmt.Errorf("checkpoint.key is required")
	}
	switch c.Checkpoint.Backend {
	case store.BackendMemory, store.BackendBadger:
	case store.BackendFile:
		if c.Checkpoint.Dir == "" {
			return fmt.Errorf("checkpoint.dir is required for the file backend")
		}
	case store.BackendRedis:
		if c.Checkpoint.RedisAddr == "" {
			return fmt.Errorf("checkpoint.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("checkpoint.backend %q is not one of memory, file, redis, badger", c.Checkpoint.Backend)
	}
	return nil
}
