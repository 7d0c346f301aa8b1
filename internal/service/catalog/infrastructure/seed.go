// internal/service/catalog/infrastructure/seed.go
package infrastructure

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate 创建或更新商品表结构。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProductModel{})
}

// SeedDemoProducts 以商品名为键把演示商品灌进数据库。
// 已存在的商品会被更新成演示数据的最新值，可以重复执行。
func SeedDemoProducts(ctx context.Context, db *gorm.DB) error {
	for _, product := range DemoProducts() {
		var model ProductModel
		err := db.WithContext(ctx).
			Where("name = ?", product.Name).
			Attrs(ProductModel{ID: uuid.NewString()}).
			Assign(map[string]interface{}{
				"description": product.Description,
				"category":    string(product.Category),
				"price":       product.Price,
				"stock":       product.Stock,
				"emoji":       product.Emoji,
			}).
			FirstOrCreate(&model).Error
		if err != nil {
			return errors.Wrapf(err, "seed product %s", product.Name)
		}
	}
	return nil
}
