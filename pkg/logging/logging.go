// Package logging 基于 zerolog 构建日志实例。
//
// 不修改任何全局状态：New 返回的 Logger 由调用方注入到各组件。
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level 最低级别：trace, debug, info, warn, error（默认 info）
	Level string `koanf:"level"`

	// Format 输出格式：json 或 console（默认 json）
	Format string `koanf:"format"`

	// Caller 是否输出调用位置
	Caller bool `koanf:"caller"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// Validate 校验配置。
func (c Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
		return nil
	default:
		return fmt.Errorf("logging: unknown format %q", c.Format)
	}
}

// New 按配置创建 Logger，输出到 w（为 nil 时使用 os.Stderr）。
func New(cfg Config, w io.Writer) (zerolog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), err
	}
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level, _ := parseLevel(cfg.Level)

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
