// internal/service/catalog/infrastructure/memory_repository_test.go
package infrastructure

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashmart/internal/service/catalog/domain"
)

func seedRepo(t *testing.T) *MemoryProductRepository {
	t.Helper()
	repo := NewMemoryProductRepository()
	for _, product := range DemoProducts() {
		require.NoError(t, repo.Create(context.Background(), product))
	}
	return repo
}

func TestFindAllFilters(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 17)

	electronics, err := repo.FindAll(ctx, domain.ProductFilter{Category: "Electronics"})
	require.NoError(t, err)
	assert.Len(t, electronics, 5)
	for _, p := range electronics {
		assert.Equal(t, domain.CategoryElectronics, p.Category)
	}

	// 搜索同时匹配名称和描述，不区分大小写
	found, err := repo.FindAll(ctx, domain.ProductFilter{Search: "yoga"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Yoga Mat Premium", found[0].Name)
}

func TestDecrementStockAtomicity(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()
	product := &domain.Product{Name: "Jacket", Category: domain.CategoryFashion, Price: 299.99, Stock: 5}
	require.NoError(t, repo.Create(ctx, product))

	remaining, err := repo.DecrementStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	// 库存不足时返回当前真实库存
	current, err := repo.DecrementStock(ctx, product.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, current)

	_, err = repo.DecrementStock(ctx, "no-such-id", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	restored, err := repo.RestoreStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, restored)
}

func TestDecrementStockConcurrent(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()
	product := &domain.Product{Name: "Bulbs", Category: domain.CategoryHome, Price: 44.99, Stock: 30}
	require.NoError(t, repo.Create(ctx, product))

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.DecrementStock(ctx, product.ID, 1)
		}()
	}
	wg.Wait()

	final, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, final.Stock, "stock never goes negative under contention")
}
