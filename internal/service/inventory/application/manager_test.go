// internal/service/inventory/application/manager_test.go
package application

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/goleak"

	"flashmart/internal/service/inventory/domain"
	"flashmart/internal/service/inventory/infrastructure"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore 是 StockStore 的测试实现，DecrementStock 满足
// "检查并扣减" 的原子性要求。
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*domain.ProductInfo
}

func newFakeStore(products ...*domain.ProductInfo) *fakeStore {
	store := &fakeStore{products: make(map[string]*domain.ProductInfo)}
	for _, p := range products {
		clone := *p
		store.products[p.ID] = &clone
	}
	return store
}

func (s *fakeStore) ProductInfo(_ context.Context, id string) (*domain.ProductInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	clone := *p
	return &clone, nil
}

func (s *fakeStore) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, &domain.ProductNotFoundError{ProductID: id}
	}
	if p.Stock < qty {
		return 0, &domain.InsufficientStockError{ProductID: id, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	return p.Stock, nil
}

func (s *fakeStore) RestoreStock(_ context.Context, id string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, &domain.ProductNotFoundError{ProductID: id}
	}
	p.Stock += qty
	return p.Stock, nil
}

func (s *fakeStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func newTestManager(store domain.StockStore) *Manager {
	return NewManager(store, infrastructure.NewKeyedMutexLocker(), nil, otel.Tracer("test"))
}

func TestReserveFreezesPrices(t *testing.T) {
	store := newFakeStore(
		&domain.ProductInfo{ID: "p1", Name: "Earbuds", Price: 129.99, Stock: 10},
		&domain.ProductInfo{ID: "p2", Name: "Shoes", Price: 159.99, Stock: 5},
	)
	manager := newTestManager(store)

	reserved, err := manager.Reserve(context.Background(), []domain.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, reserved, 2)

	assert.Equal(t, "Earbuds", reserved[0].Name)
	assert.Equal(t, 129.99, reserved[0].UnitPrice)
	assert.Equal(t, 2, reserved[0].Quantity)
	assert.Equal(t, 8, store.stock("p1"))
	assert.Equal(t, 4, store.stock("p2"))
}

func TestReserveMergesDuplicateLines(t *testing.T) {
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Earbuds", Price: 10, Stock: 10})
	manager := newTestManager(store)

	reserved, err := manager.Reserve(context.Background(), []domain.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, 5, reserved[0].Quantity)
	assert.Equal(t, 5, store.stock("p1"))
}

func TestReserveInsufficientStockReportsAvailable(t *testing.T) {
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Jacket", Price: 299.99, Stock: 3})
	manager := newTestManager(store)

	_, err := manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 8}})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p1", insufficient.ProductID)
	assert.Equal(t, 8, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 3, store.stock("p1"), "failed reservation must not change stock")
}

func TestReserveIsAllOrNothing(t *testing.T) {
	store := newFakeStore(
		&domain.ProductInfo{ID: "p1", Name: "Earbuds", Price: 10, Stock: 10},
		&domain.ProductInfo{ID: "p2", Name: "Shoes", Price: 20, Stock: 1},
	)
	manager := newTestManager(store)

	_, err := manager.Reserve(context.Background(), []domain.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 5},
	})
	require.Error(t, err)

	assert.Equal(t, 10, store.stock("p1"), "earlier lines must be rolled back")
	assert.Equal(t, 1, store.stock("p2"))
}

func TestReserveUnknownProduct(t *testing.T) {
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Earbuds", Price: 10, Stock: 10})
	manager := newTestManager(store)

	_, err := manager.Reserve(context.Background(), []domain.Line{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	})
	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ProductID)
	assert.Equal(t, 10, store.stock("p1"))
}

func TestReserveValidation(t *testing.T) {
	manager := newTestManager(newFakeStore())

	_, err := manager.Reserve(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyReservation)

	_, err = manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// 两个并发请求争夺 5 件库存各要 3 件：恰好一个成功，
// 失败方看到的可用库存是对方扣减后的 2 件。
func TestConcurrentReservesNeverOversell(t *testing.T) {
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Jacket", Price: 299.99, Stock: 5})
	manager := newTestManager(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 3}})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 2, insufficient.Available)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, store.stock("p1"))
}

func TestConcurrentReservesDrainExactly(t *testing.T) {
	const stock, workers = 50, 20
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Bulbs", Price: 44.99, Stock: stock})
	manager := newTestManager(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	reservedTotal := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reserved, err := manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 4}})
			if err != nil {
				return
			}
			mu.Lock()
			reservedTotal += reserved[0].Quantity
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, stock-store.stock("p1"), reservedTotal, "decrements must equal successful reservations")
	assert.GreaterOrEqual(t, store.stock("p1"), 0)
}

// faultyStore 在读取商品信息时返回存储层故障而不是领域错误。
type faultyStore struct {
	*fakeStore
}

func (s faultyStore) ProductInfo(context.Context, string) (*domain.ProductInfo, error) {
	return nil, errors.New("connection refused")
}

func TestReserveMetricsClassifyErrors(t *testing.T) {
	storeErrors := testutil.ToFloat64(reservationsTotal.WithLabelValues("store_error"))
	notFound := testutil.ToFloat64(reservationsTotal.WithLabelValues("not_found"))
	insufficient := testutil.ToFloat64(reservationsTotal.WithLabelValues("insufficient"))

	manager := newTestManager(faultyStore{newFakeStore()})
	_, err := manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 1}})
	require.Error(t, err)

	// 存储层故障不能被记成商品不存在或缺货
	assert.Equal(t, storeErrors+1, testutil.ToFloat64(reservationsTotal.WithLabelValues("store_error")))
	assert.Equal(t, notFound, testutil.ToFloat64(reservationsTotal.WithLabelValues("not_found")))
	assert.Equal(t, insufficient, testutil.ToFloat64(reservationsTotal.WithLabelValues("insufficient")))

	healthy := newTestManager(newFakeStore())
	_, err = healthy.Reserve(context.Background(), []domain.Line{{ProductID: "ghost", Quantity: 1}})
	require.Error(t, err)
	assert.Equal(t, notFound+1, testutil.ToFloat64(reservationsTotal.WithLabelValues("not_found")))
}

func TestReleaseRestoresStock(t *testing.T) {
	store := newFakeStore(&domain.ProductInfo{ID: "p1", Name: "Earbuds", Price: 10, Stock: 10})
	manager := newTestManager(store)

	reserved, err := manager.Reserve(context.Background(), []domain.Line{{ProductID: "p1", Quantity: 4}})
	require.NoError(t, err)
	require.Equal(t, 6, store.stock("p1"))

	require.NoError(t, manager.Release(context.Background(), reserved))
	assert.Equal(t, 10, store.stock("p1"))
}
