package models

// 费用类别常量
const (
	CategoryNonAlcoholic = "non-alcoholic"
	CategoryAlcoholic    = "alcoholic"
	CategoryOther        = "Other"
)

// 快速录入的饮品类型，与固定价格类别一一对应
const (
	DrinkNonAlcoholic = "non-alcoholic"
	DrinkAlcoholic    = "alcoholic"
)

// Category 费用类别
// Fixed 为 true 时金额固定为 Price，调用方提交的金额会被忽略
type Category struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Fixed bool    `json:"fixed"`
	Price float64 `json:"price,omitempty"`
}

// CategoryCatalog 类别目录，价格来自配置
type CategoryCatalog struct {
	categories []Category
}

// NewCategoryCatalog 按给定饮品价格创建类别目录
func NewCategoryCatalog(nonAlcoholicPrice, alcoholicPrice float64) *CategoryCatalog {
	return &CategoryCatalog{
		categories: []Category{
			{Key: CategoryNonAlcoholic, Label: "Nicht-alkoholisches Getränk", Fixed: true, Price: nonAlcoholicPrice},
			{Key: CategoryAlcoholic, Label: "Alkoholisches Getränk", Fixed: true, Price: alcoholicPrice},
			{Key: CategoryOther, Label: "Anderes"},
		},
	}
}

// Lookup 根据 key 查找类别
func (c *CategoryCatalog) Lookup(key string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return Category{}, false
}

// ForDrink 根据饮品类型查找对应的固定价格类别
func (c *CategoryCatalog) ForDrink(drinkType string) (Category, bool) {
	switch drinkType {
	case DrinkNonAlcoholic:
		return c.Lookup(CategoryNonAlcoholic)
	case DrinkAlcoholic:
		return c.Lookup(CategoryAlcoholic)
	}
	return Category{}, false
}

// All 返回所有类别（按展示顺序）
func (c *CategoryCatalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}
