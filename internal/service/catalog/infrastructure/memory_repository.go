// internal/service/catalog/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"flashmart/internal/service/catalog/domain"
)

// MemoryProductRepository 是 ProductRepository 的内存实现，
// 用于无外部依赖的本地启动和测试。互斥锁保证 DecrementStock
// 的检查与扣减是单个原子步骤。
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]*domain.Product)}
}

func (r *MemoryProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	clone := *product
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	r.products[product.ID] = &clone
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Product
	search := strings.ToLower(filter.Search)
	for _, p := range r.products {
		if filter.Category != "" && filter.Category != "All" && string(p.Category) != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryProductRepository) Categories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.Category]bool)
	for _, p := range r.products {
		seen[p.Category] = true
	}
	var out []domain.Category
	for _, c := range domain.AllCategories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if product.Stock < qty {
		return product.Stock, domain.ErrInsufficientStock
	}
	product.Stock -= qty
	product.UpdatedAt = time.Now()
	return product.Stock, nil
}

func (r *MemoryProductRepository) RestoreStock(_ context.Context, id string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	product.Stock += qty
	product.UpdatedAt = time.Now()
	return product.Stock, nil
}
