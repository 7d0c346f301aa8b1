// internal/service/catalog/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"flashmart/internal/service/catalog/domain"
)

// ProductModel 对应数据库中的 product 表。
type ProductModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:255;index"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"size:32;index"`
	Price       float64 `gorm:"type:decimal(10,2)"`
	Stock       int
	Emoji       string `gorm:"size:16"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (ProductModel) TableName() string {
	return "product"
}

// --- 领域模型与数据库模型的转换 ---

func toProductModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price,
		Stock:       p.Stock,
		Emoji:       p.Emoji,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    domain.Category(m.Category),
		Price:       m.Price,
		Stock:       m.Stock,
		Emoji:       m.Emoji,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
