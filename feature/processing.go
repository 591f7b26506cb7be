package feature

import (
	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/prodsim/core"
)

// NormalizedSuffix 是归一化列名的后缀。
const NormalizedSuffix = "_normalized"

// MinMaxScaler Min-Max 归一化
// 公式: x' = (x - min) / (max - min)
// 特点: 将值缩放到 [0, 1] 区间；max == min 时所有值为 0
type MinMaxScaler struct {
	Min map[string]float64 // 特征最小值
	Max map[string]float64 // 特征最大值
}

// NewMinMaxScaler 创建 Min-Max 归一化器
func NewMinMaxScaler(min, max map[string]float64) *MinMaxScaler {
	return &MinMaxScaler{
		Min: min,
		Max: max,
	}
}

// FitMinMax 按字段统计目录中的最小/最大值，缺失的可选字段按 0 计。
func FitMinMax(products []core.Product, fields []string) *MinMaxScaler {
	s := NewMinMaxScaler(make(map[string]float64, len(fields)), make(map[string]float64, len(fields)))
	if len(products) == 0 {
		return s
	}
	col := make([]float64, len(products))
	for _, field := range fields {
		for i := range products {
			col[i], _ = products[i].Numeric(field)
		}
		s.Min[field] = floats.Min(col)
		s.Max[field] = floats.Max(col)
	}
	return s
}

// Normalize 归一化特征
func (s *MinMaxScaler) Normalize(features map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(features))
	for k, v := range features {
		normalized[k] = s.NormalizeValueWithKey(k, v)
	}
	return normalized
}

// NormalizeValueWithKey 归一化单个值（指定特征名）
func (s *MinMaxScaler) NormalizeValueWithKey(key string, value float64) float64 {
	min := s.Min[key]
	rangeVal := s.Max[key] - min
	if rangeVal > 0 {
		return (value - min) / rangeVal
	}
	return 0
}

// NumericTable 是归一化后的数值特征表（NormalizedFeatureSet），与输入记录一一对应。
// 它是纯函数 NormalizeNumeric 的输出，不会修改输入记录。
type NumericTable struct {
	Fields  []string    // 原始字段名，如 price
	Columns []string    // 归一化列名，如 price_normalized
	Values  [][]float64 // 行优先：Values[row][col]
	Scaler  *MinMaxScaler
}

// PresentNumericFields 返回目录中出现的数值字段（按规范顺序）。
func PresentNumericFields(catalog core.Catalog) []string {
	var fields []string
	for _, field := range core.NumericFields {
		if catalog.HasColumn(field) {
			fields = append(fields, field)
		}
	}
	return fields
}

// NormalizeNumeric 对每个字段用目录自身的取值范围重新拟合 Min-Max，并输出 <field>_normalized 列。
func NormalizeNumeric(products []core.Product, fields []string) NumericTable {
	scaler := FitMinMax(products, fields)
	table := NumericTable{
		Fields:  append([]string(nil), fields...),
		Columns: make([]string, len(fields)),
		Values:  make([][]float64, len(products)),
		Scaler:  scaler,
	}
	for j, field := range fields {
		table.Columns[j] = field + NormalizedSuffix
	}
	for i := range products {
		row := make([]float64, len(fields))
		for j, field := range fields {
			v, _ := products[i].Numeric(field)
			row[j] = scaler.NormalizeValueWithKey(field, v)
		}
		table.Values[i] = row
	}
	return table
}

// Row 以 map 形式返回某一行（列名 -> 值）。
func (t NumericTable) Row(i int) map[string]float64 {
	out := make(map[string]float64, len(t.Columns))
	for j, col := range t.Columns {
		out[col] = t.Values[i][j]
	}
	return out
}
