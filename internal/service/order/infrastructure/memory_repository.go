// internal/service/order/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"

	"flashmart/internal/service/order/domain"
)

// MemoryOrderRepository 是 domain.OrderRepository 的进程内实现，
// 用于本地开发和测试。
type MemoryOrderRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Order
	numbers map[string]struct{}
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		byID:    make(map[string]*domain.Order),
		numbers: make(map[string]struct{}),
	}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.numbers[order.OrderNumber]; exists {
		return domain.ErrDuplicateOrderNumber
	}
	clone := *order
	clone.Items = append([]domain.OrderLine(nil), order.Items...)
	r.byID[order.ID] = &clone
	r.numbers[order.OrderNumber] = struct{}{}
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *order
	clone.Items = append([]domain.OrderLine(nil), order.Items...)
	return &clone, nil
}

func (r *MemoryOrderRepository) FindByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.byID {
		if order.CustomerID == customerID {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	sortByCreatedDesc(orders)
	return orders, nil
}

func (r *MemoryOrderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(r.byID))
	for _, order := range r.byID {
		clone := *order
		orders = append(orders, &clone)
	}
	sortByCreatedDesc(orders)
	return orders, nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id string, status domain.Status, payment domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	order.PaymentStatus = payment
	return nil
}

func sortByCreatedDesc(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
