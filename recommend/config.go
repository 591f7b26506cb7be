package recommend

import "fmt"

// Config 是查询引擎配置。
type Config struct {
	// DefaultK 是 k <= 0 时使用的结果数
	DefaultK int `json:"default_k" koanf:"default_k"`

	// OversampleFactor 是相似商品查询的过采样倍数：先取 k*OversampleFactor 个再过滤
	OversampleFactor int `json:"oversample" koanf:"oversample"`

	// StopWords 训练时是否剔除英文停用词
	StopWords bool `json:"stop_words" koanf:"stop_words"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		DefaultK:         5,
		OversampleFactor: 2,
		StopWords:        true,
	}
}

// Validate 校验配置。
func (c *Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1, got %d", c.DefaultK)
	}
	if c.OversampleFactor < 1 {
		return fmt.Errorf("oversample must be at least 1, got %d", c.OversampleFactor)
	}
	return nil
}

// resolveK 把 k <= 0 替换为 DefaultK；引擎不设上限。
func (c *Config) resolveK(k int) int {
	if k <= 0 {
		return c.DefaultK
	}
	return k
}
