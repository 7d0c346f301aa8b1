// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"flashmart/internal/service/catalog/domain"
)

// GormProductRepository 是 ProductRepository 的 GORM 实现。
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository 创建一个新的 GORM 仓储实例。
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	model := toProductModel(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"category":    string(product.Category),
		"price":       product.Price,
		"stock":       product.Stock,
		"emoji":       product.Emoji,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&ProductModel{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}
	return toDomainProduct(&model), nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if filter.Category != "" && filter.Category != "All" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var models []*ProductModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toDomainProduct(m)
	}
	return products, nil
}

func (r *GormProductRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&ProductModel{}).Distinct("category").Pluck("category", &values).Error
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	categories := make([]domain.Category, len(values))
	for i, v := range values {
		categories[i] = domain.Category(v)
	}
	return categories, nil
}

// DecrementStock 用单条条件 UPDATE 实现 "检查并扣减"，
// 数据库层的行锁保证了同一商品上的并发扣减串行化，库存不会被扣成负数。
func (r *GormProductRepository) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		// 区分商品不存在和库存不足
		product, err := r.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		return product.Stock, domain.ErrInsufficientStock
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

func (r *GormProductRepository) RestoreStock(ctx context.Context, id string, qty int) (int, error) {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "restore stock")
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrProductNotFound
	}
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}
