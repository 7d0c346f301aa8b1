// internal/service/catalog/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/service/catalog/domain"
)

// StockNotifier 是库存变更的出站端口，实现方把新库存推送给在线客户端，
// 让客户端及时刷新本地缓存的库存快照。
type StockNotifier interface {
	PublishStockChange(productID string, stock int)
}

// CatalogService 提供商品目录的查询和管理用例。
type CatalogService struct {
	repo     domain.ProductRepository
	notifier StockNotifier
	tracer   trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, notifier StockNotifier, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, notifier: notifier, tracer: tracer}
}

// ListProducts 按分类和关键字过滤商品，创建时间倒序。
func (s *CatalogService) ListProducts(ctx context.Context, category, search string) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()
	span.SetAttributes(
		attribute.String("filter.category", category),
		attribute.String("filter.search", search),
	)
	return s.repo.FindAll(ctx, domain.ProductFilter{Category: category, Search: search})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Categories")
	defer span.End()
	return s.repo.Categories(ctx)
}

// CreateProduct 新建商品（管理员操作）。
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateProduct")
	defer span.End()

	if err := product.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create product")
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("product.id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

// UpdateProduct 更新商品（管理员操作）。库存字段变化会向客户端推送新值。
func (s *CatalogService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", product.ID))

	if err := product.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update product")
		return nil, err
	}
	if s.notifier != nil && existing.Stock != product.Stock {
		s.notifier.PublishStockChange(product.ID, product.Stock)
	}
	return s.repo.FindByID(ctx, product.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))
	return s.repo.Delete(ctx, id)
}
