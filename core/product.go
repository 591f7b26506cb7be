package core

// 目录字段名（规范名称，与原始数据列名一致）。
const (
	FieldID               = "product_id"
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldCategory         = "category"
	FieldPrice            = "price"
	FieldRating           = "rating"
	FieldReviewsCount     = "reviews_count"
	FieldSalesLast30Days  = "sales_last_30_days"
	FieldStock            = "stock"
	FieldSellerRating     = "seller_rating"
	FieldShippingTimeDays = "shipping_time_days"
)

// RequiredFields 是训练目录必须包含的字段。
var RequiredFields = []string{
	FieldID, FieldTitle, FieldCategory, FieldPrice, FieldRating, FieldReviewsCount,
}

// NumericFields 是参与 min-max 归一化的数值字段，顺序即组合特征向量中的列顺序。
var NumericFields = []string{
	FieldPrice, FieldRating, FieldReviewsCount,
	FieldSalesLast30Days, FieldStock, FieldSellerRating, FieldShippingTimeDays,
}

// OptionalNumericFields 是可选的附加数值字段。
var OptionalNumericFields = []string{
	FieldSalesLast30Days, FieldStock, FieldSellerRating, FieldShippingTimeDays,
}

// Product 是目录中的一条商品记录。
// 可选数值字段用指针表示；缺失值在归一化前按 0 处理。
type Product struct {
	ID           int64   `json:"product_id" yaml:"product_id"`
	Title        string  `json:"title" yaml:"title"`
	Description  string  `json:"description" yaml:"description"`
	Category     string  `json:"category" yaml:"category"`
	Price        float64 `json:"price" yaml:"price"`
	Rating       float64 `json:"rating" yaml:"rating"`
	ReviewsCount int     `json:"reviews_count" yaml:"reviews_count"`

	SalesLast30Days  *int     `json:"sales_last_30_days,omitempty" yaml:"sales_last_30_days,omitempty"`
	Stock            *int     `json:"stock,omitempty" yaml:"stock,omitempty"`
	SellerRating     *float64 `json:"seller_rating,omitempty" yaml:"seller_rating,omitempty"`
	ShippingTimeDays *int     `json:"shipping_time_days,omitempty" yaml:"shipping_time_days,omitempty"`
}

// Numeric 按字段名读取数值字段。
// 第二个返回值表示该记录是否设置了此字段；未设置时返回 0。
func (p *Product) Numeric(field string) (float64, bool) {
	switch field {
	case FieldPrice:
		return p.Price, true
	case FieldRating:
		return p.Rating, true
	case FieldReviewsCount:
		return float64(p.ReviewsCount), true
	case FieldSalesLast30Days:
		return intPtr(p.SalesLast30Days)
	case FieldStock:
		return intPtr(p.Stock)
	case FieldSellerRating:
		if p.SellerRating == nil {
			return 0, false
		}
		return *p.SellerRating, true
	case FieldShippingTimeDays:
		return intPtr(p.ShippingTimeDays)
	default:
		return 0, false
	}
}

func intPtr(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

// Clone 返回深拷贝，可选字段指向新的值。
func (p *Product) Clone() Product {
	c := *p
	c.SalesLast30Days = cloneInt(p.SalesLast30Days)
	c.Stock = cloneInt(p.Stock)
	c.ShippingTimeDays = cloneInt(p.ShippingTimeDays)
	if p.SellerRating != nil {
		v := *p.SellerRating
		c.SellerRating = &v
	}
	return c
}

// CloneProducts 深拷贝一组商品。
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i := range products {
		out[i] = products[i].Clone()
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// View 返回商品的公开视图。
func (p *Product) View() ProductView {
	return ProductView{
		ProductID:    p.ID,
		Title:        p.Title,
		Category:     p.Category,
		Price:        p.Price,
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
	}
}

// ProductView 是对外暴露的商品字段。
type ProductView struct {
	ProductID    int64   `json:"product_id"`
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
}

// Recommendation 是一条相似商品结果。
type Recommendation struct {
	ProductView
	SimilarityScore float64 `json:"similarity_score"`
}

// CategoryDistribution 是按类别的商品计数。
type CategoryDistribution struct {
	Distribution  map[string]int `json:"distribution"`
	TotalProducts int            `json:"total_products"`
}

// Catalog 是一次训练使用的商品目录。
// Columns 描述数据源实际包含的字段（schema），Products 保持数据源顺序。
type Catalog struct {
	Columns  []string
	Products []Product
}

// NewCatalog 从商品记录构建目录：必需字段 + description + 至少一条记录设置过的可选字段。
func NewCatalog(products ...Product) Catalog {
	columns := make([]string, 0, len(RequiredFields)+1+len(OptionalNumericFields))
	columns = append(columns, RequiredFields...)
	columns = append(columns, FieldDescription)
	for _, field := range OptionalNumericFields {
		for i := range products {
			if _, ok := products[i].Numeric(field); ok {
				columns = append(columns, field)
				break
			}
		}
	}
	return Catalog{Columns: columns, Products: products}
}

// HasColumn 判断目录是否包含某字段。
func (c Catalog) HasColumn(field string) bool {
	for _, col := range c.Columns {
		if col == field {
			return true
		}
	}
	return false
}

// MissingRequired 返回缺失的必需字段（按 RequiredFields 顺序）。
func (c Catalog) MissingRequired() []string {
	var missing []string
	for _, field := range RequiredFields {
		if !c.HasColumn(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Len 返回商品数量。
func (c Catalog) Len() int { return len(c.Products) }
