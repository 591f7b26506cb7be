// Package catalog 把 CSV / JSON / YAML 文件解码为 core.Catalog。
//
// 列名即字段名（product_id, title, description, category, price, ...），未知列被忽略。
// Catalog.Columns 只包含数据源中实际出现的已知列，缺失必需列由 similarity.Build 报 SchemaError。
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/pkg/conv"
)

// Format 是目录文件格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// knownColumns 是可识别的列，顺序即 Catalog.Columns 的顺序
var knownColumns = append([]string{
	core.FieldID, core.FieldTitle, core.FieldDescription, core.FieldCategory,
	core.FieldPrice, core.FieldRating, core.FieldReviewsCount,
}, core.OptionalNumericFields...)

// FormatFromPath 按扩展名推断格式。
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("catalog: unsupported file extension %q", filepath.Ext(path))
	}
}

// LoadFile 按扩展名加载目录文件。
func LoadFile(path string) (core.Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return core.Catalog{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()

	cat, err := Decode(f, format)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Decode 从 r 解码指定格式的目录。
func Decode(r io.Reader, format Format) (core.Catalog, error) {
	var (
		records []map[string]any
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&records)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&records)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return core.Catalog{}, fmt.Errorf("catalog: decode %s: %w", format, err)
	}
	return fromRecords(records)
}

// readCSV 读取带表头的 CSV；空单元格视为未设置。
func readCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var records []map[string]any
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				rec[col] = row[i]
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}
}

func fromRecords(records []map[string]any) (core.Catalog, error) {
	seen := make(map[string]bool)
	for _, rec := range records {
		for col := range rec {
			seen[col] = true
		}
	}
	cat := core.Catalog{Products: make([]core.Product, 0, len(records))}
	for _, col := range knownColumns {
		if seen[col] {
			cat.Columns = append(cat.Columns, col)
		}
	}

	for i, rec := range records {
		p, err := decodeProduct(rec)
		if err != nil {
			return core.Catalog{}, fmt.Errorf("catalog: row %d: %w", i+1, err)
		}
		cat.Products = append(cat.Products, p)
	}
	return cat, nil
}

func decodeProduct(rec map[string]any) (core.Product, error) {
	var (
		p   core.Product
		err error
	)
	if p.ID, err = requiredInt64(rec, core.FieldID); err != nil {
		return p, err
	}
	p.Title = text(rec, core.FieldTitle)
	p.Description = text(rec, core.FieldDescription)
	p.Category = text(rec, core.FieldCategory)
	if p.Price, err = requiredFloat(rec, core.FieldPrice); err != nil {
		return p, err
	}
	if p.Rating, err = requiredFloat(rec, core.FieldRating); err != nil {
		return p, err
	}
	reviews, err := requiredInt64(rec, core.FieldReviewsCount)
	if err != nil {
		return p, err
	}
	p.ReviewsCount = int(reviews)

	if p.SalesLast30Days, err = optionalInt(rec, core.FieldSalesLast30Days); err != nil {
		return p, err
	}
	if p.Stock, err = optionalInt(rec, core.FieldStock); err != nil {
		return p, err
	}
	if p.SellerRating, err = optionalFloat(rec, core.FieldSellerRating); err != nil {
		return p, err
	}
	if p.ShippingTimeDays, err = optionalInt(rec, core.FieldShippingTimeDays); err != nil {
		return p, err
	}
	return p, nil
}

func text(rec map[string]any, col string) string {
	s, _ := conv.ToString(rec[col])
	return s
}

// requiredInt64 / requiredFloat：列整体缺失时返回零值（由 schema 校验负责），
// 列存在但值为空或无法解析时报错。
func requiredInt64(rec map[string]any, col string) (int64, error) {
	v, ok := rec[col]
	if !ok {
		return 0, nil
	}
	i, ok := conv.ToInt64(v)
	if !ok {
		return 0, fmt.Errorf("column %q: invalid integer %v", col, v)
	}
	return i, nil
}

func requiredFloat(rec map[string]any, col string) (float64, error) {
	v, ok := rec[col]
	if !ok {
		return 0, nil
	}
	f, ok := conv.ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("column %q: invalid number %v", col, v)
	}
	return f, nil
}

func optionalInt(rec map[string]any, col string) (*int, error) {
	v := rec[col]
	if v == nil {
		return nil, nil
	}
	i, ok := conv.ToInt(v)
	if !ok {
		return nil, fmt.Errorf("column %q: invalid integer %v", col, v)
	}
	return &i, nil
}

func optionalFloat(rec map[string]any, col string) (*float64, error) {
	v := rec[col]
	if v == nil {
		return nil, nil
	}
	f, ok := conv.ToFloat64(v)
	if !ok {
		return nil, fmt.Errorf("column %q: invalid number %v", col, v)
	}
	return &f, nil
}
