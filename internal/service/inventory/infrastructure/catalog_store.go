// internal/service/inventory/infrastructure/catalog_store.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	catalogdomain "flashmart/internal/service/catalog/domain"
	"flashmart/internal/service/inventory/domain"
)

// CatalogStockStore 把商品目录仓储适配为库存端口。
// 目录仓储的条件扣减（数据库条件 UPDATE / 内存互斥锁）提供了
// DecrementStock 要求的原子性。
type CatalogStockStore struct {
	repo catalogdomain.ProductRepository
}

func NewCatalogStockStore(repo catalogdomain.ProductRepository) *CatalogStockStore {
	return &CatalogStockStore{repo: repo}
}

func (s *CatalogStockStore) ProductInfo(ctx context.Context, id string) (*domain.ProductInfo, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}
	return &domain.ProductInfo{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}, nil
}

func (s *CatalogStockStore) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	remaining, err := s.repo.DecrementStock(ctx, id, qty)
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			return 0, &domain.ProductNotFoundError{ProductID: id}
		case errors.Is(err, catalogdomain.ErrInsufficientStock):
			return 0, &domain.InsufficientStockError{ProductID: id, Requested: qty, Available: remaining}
		}
		return 0, err
	}
	return remaining, nil
}

func (s *CatalogStockStore) RestoreStock(ctx context.Context, id string, qty int) (int, error) {
	remaining, err := s.repo.RestoreStock(ctx, id, qty)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return 0, &domain.ProductNotFoundError{ProductID: id}
		}
		return 0, err
	}
	return remaining, nil
}
