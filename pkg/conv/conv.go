// Package conv 提供类型转换工具，用于把 CSV/JSON/YAML 解析出的动态值转为具体类型。
package conv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// number 兼容 encoding/json 与 goccy/go-json 的 Number 类型
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、各种整数、数字字符串与 json.Number；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt64 将 any 转为 int64。
// 浮点数必须是整数值（如 12.0），否则视为转换失败。
func ToInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float64:
		return integral(val)
	case float32:
		return integral(float64(val))
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return integral(f)
	case number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// ToInt 将 any 转为 int。
func ToInt(v any) (int, bool) {
	i, ok := ToInt64(v)
	if !ok || i > math.MaxInt || i < math.MinInt {
		return 0, false
	}
	return int(i), true
}

// ToString 将 any 转为 string。
// 字符串原样返回；数字与布尔按默认格式输出（YAML 中未加引号的标题会被解析为数字）。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case int, int32, int64, uint64, bool:
		return fmt.Sprint(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}
