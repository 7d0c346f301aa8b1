// internal/service/catalog/domain/product.go
package domain

import (
	"fmt"
	"time"
)

// Category 是商品的固定分类集合。
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategorySports      Category = "Sports"
	CategoryFashion     Category = "Fashion"
	CategoryHome        Category = "Home"
)

// AllCategories 按展示顺序返回所有合法分类。
func AllCategories() []Category {
	return []Category{CategoryElectronics, CategorySports, CategoryFashion, CategoryHome}
}

// ParseCategory 校验并转换分类字符串。
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Product 是商品聚合根。
// Stock 的不变式（永不为负）由库存预占管理器保证，其余代码不得绕过它直接扣减。
type Product struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Price       float64
	Stock       int
	Emoji       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate 校验商品字段，供创建和更新共用。
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must be non-negative", ErrInvalidProduct)
	}
	return nil
}
