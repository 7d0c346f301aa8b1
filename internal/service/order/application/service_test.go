// internal/service/order/application/service_test.go
package application

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"flashmart/internal/pkg/auth"
	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/infrastructure"
	"flashmart/internal/service/order/port"
)

var (
	shopper = auth.Principal{UserID: "user-1"}
	admin   = auth.Principal{UserID: "admin-1", IsAdmin: true}
)

// fakeInventory 维护一份简单的库存表，并记录 Release 调用。
type fakeInventory struct {
	mu       sync.Mutex
	products map[string]port.ReservedItem // Quantity 字段当作库存用
	released [][]port.ReservedItem
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		products: map[string]port.ReservedItem{
			"p1": {ProductID: "p1", Name: "Earbuds", UnitPrice: 15.00, Quantity: 10},
			"p2": {ProductID: "p2", Name: "Mat", UnitPrice: 15.00, Quantity: 5},
		},
	}
}

func (f *fakeInventory) Reserve(_ context.Context, items []port.ItemRequest) ([]port.ReservedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reserved := make([]port.ReservedItem, 0, len(items))
	for _, item := range items {
		product, ok := f.products[item.ProductID]
		if !ok {
			return nil, &port.UnknownProductError{ProductID: item.ProductID}
		}
		if product.Quantity < item.Quantity {
			return nil, &port.StockConflictError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.Quantity,
			}
		}
		reserved = append(reserved, port.ReservedItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}
	for _, item := range reserved {
		product := f.products[item.ProductID]
		product.Quantity -= item.Quantity
		f.products[item.ProductID] = product
	}
	return reserved, nil
}

func (f *fakeInventory) Release(_ context.Context, items []port.ReservedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.released = append(f.released, items)
	for _, item := range items {
		product := f.products[item.ProductID]
		product.Quantity += item.Quantity
		f.products[item.ProductID] = product
	}
	return nil
}

func (f *fakeInventory) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Quantity
}

// fakeDiscounts 认一个 FLASH10，其余一律拒绝。
type fakeDiscounts struct{}

func (fakeDiscounts) Apply(_ context.Context, code string, facts port.PurchaseFacts) (port.AppliedDiscount, error) {
	if code != "FLASH10" {
		return port.AppliedDiscount{}, errors.Wrap(port.ErrDiscountRejected, "unknown code")
	}
	return port.AppliedDiscount{Code: code, Amount: facts.Subtotal * 0.10}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.OrderPlacedEvent
	fail   bool
}

func (f *fakeNotifier) SendOrderPlaced(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("kafka unavailable")
	}
	f.events = append(f.events, domain.NewOrderPlacedEvent(order))
	return nil
}

// failingRepo 包装真实仓储并强制 Insert 失败。
type failingRepo struct {
	domain.OrderRepository
}

func (failingRepo) Insert(context.Context, *domain.Order) error {
	return errors.New("database unavailable")
}

func newTestService(inventory port.InventoryService, notifier port.NotificationProducer, repo domain.OrderRepository) *OrderApplicationService {
	if repo == nil {
		repo = infrastructure.NewMemoryOrderRepository()
	}
	return NewOrderApplicationService(repo, inventory, fakeDiscounts{}, notifier, otel.Tracer("test"))
}

func validRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items: []LineRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
		Shipping: domain.ShippingAddress{
			Name:    "Demo Shopper",
			Email:   "shopper@example.com",
			Address: "1 Demo Street",
			City:    "Demo City",
			ZipCode: "10001",
			Country: "US",
		},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	inventory := newFakeInventory()
	notifier := &fakeNotifier{}
	service := newTestService(inventory, notifier, nil)

	req := validRequest()
	req.DiscountCode = "FLASH10"

	order, err := service.PlaceOrder(context.Background(), shopper, req)
	require.NoError(t, err)

	// 3 件 15 元的商品：小计 45，九折券减 4.50，实付 40.50
	assert.Equal(t, 45.00, order.Subtotal)
	assert.Equal(t, 4.50, order.Discount.Amount)
	assert.Equal(t, 40.50, order.Total)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)

	assert.Equal(t, 8, inventory.stock("p1"))
	assert.Equal(t, 4, inventory.stock("p2"))
	require.Len(t, notifier.events, 1)
	assert.Equal(t, order.OrderNumber, notifier.events[0].OrderNumber)

	// 订单已可按 ID 读回
	stored, err := service.GetOrder(context.Background(), shopper, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestPlaceOrderWithoutDiscount(t *testing.T) {
	service := newTestService(newFakeInventory(), &fakeNotifier{}, nil)

	order, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err)
	assert.Nil(t, order.Discount)
	assert.Equal(t, 45.00, order.Total)
}

func TestPlaceOrderStockConflict(t *testing.T) {
	inventory := newFakeInventory()
	service := newTestService(inventory, &fakeNotifier{}, nil)

	req := validRequest()
	req.Items = []LineRequest{{ProductID: "p2", Quantity: 8}}

	_, err := service.PlaceOrder(context.Background(), shopper, req)
	var conflict *port.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "p2", conflict.ProductID)
	assert.Equal(t, 5, conflict.Available)
	assert.Equal(t, 5, inventory.stock("p2"))
}

func TestPlaceOrderDiscountRejectedReleasesStock(t *testing.T) {
	inventory := newFakeInventory()
	service := newTestService(inventory, &fakeNotifier{}, nil)

	req := validRequest()
	req.DiscountCode = "BOGUS"

	_, err := service.PlaceOrder(context.Background(), shopper, req)
	require.ErrorIs(t, err, port.ErrDiscountRejected)

	// 预占过的库存必须被补偿回来
	require.Len(t, inventory.released, 1)
	assert.Equal(t, 10, inventory.stock("p1"))
	assert.Equal(t, 5, inventory.stock("p2"))
}

func TestPlaceOrderPersistenceFailureReleasesStock(t *testing.T) {
	inventory := newFakeInventory()
	service := newTestService(inventory, &fakeNotifier{}, failingRepo{})

	_, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.Error(t, err)

	require.Len(t, inventory.released, 1)
	assert.Equal(t, 10, inventory.stock("p1"))
	assert.Equal(t, 5, inventory.stock("p2"))
}

func TestPlaceOrderNotificationFailureIsNotFatal(t *testing.T) {
	inventory := newFakeInventory()
	notifier := &fakeNotifier{fail: true}
	service := newTestService(inventory, notifier, nil)

	order, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err, "notification is off the critical path")
	assert.Equal(t, 8, inventory.stock("p1"))
	assert.NotEmpty(t, order.OrderNumber)
}

func TestPlaceOrderInvalidShipping(t *testing.T) {
	inventory := newFakeInventory()
	service := newTestService(inventory, &fakeNotifier{}, nil)

	req := validRequest()
	req.Shipping.Email = "nope"

	_, err := service.PlaceOrder(context.Background(), shopper, req)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 10, inventory.stock("p1"), "validation happens before any reservation")
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	inventory := newFakeInventory()
	service := newTestService(inventory, &fakeNotifier{}, nil)

	req := validRequest()
	req.Items = []LineRequest{{ProductID: "p1", Quantity: 0}}

	_, err := service.PlaceOrder(context.Background(), shopper, req)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items", validation.Field)
	assert.Equal(t, 10, inventory.stock("p1"), "invalid lines must never reach the reservation manager")
	assert.Empty(t, inventory.released)
}

func TestGetOrderAuthorization(t *testing.T) {
	service := newTestService(newFakeInventory(), &fakeNotifier{}, nil)

	order, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err)

	// 其他用户拿不到，且错误是 403 语义而不是 404
	_, err = service.GetOrder(context.Background(), auth.Principal{UserID: "user-2"}, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	// 管理员可以
	_, err = service.GetOrder(context.Background(), admin, order.ID)
	assert.NoError(t, err)

	// 不存在的订单是 404 语义
	_, err = service.GetOrder(context.Background(), shopper, "no-such-order")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrdersAuthorization(t *testing.T) {
	service := newTestService(newFakeInventory(), &fakeNotifier{}, nil)

	_, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err)

	orders, err := service.ListCustomerOrders(context.Background(), shopper, "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = service.ListCustomerOrders(context.Background(), auth.Principal{UserID: "user-2"}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = service.ListAllOrders(context.Background(), shopper)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	all, err := service.ListAllOrders(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateStatus(t *testing.T) {
	service := newTestService(newFakeInventory(), &fakeNotifier{}, nil)

	order, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err)

	// 非管理员不能改状态
	_, err = service.UpdateStatus(context.Background(), shopper, order.ID, domain.StatusProcessing)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	updated, err := service.UpdateStatus(context.Background(), admin, order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	// 非法流转被状态机拒绝
	_, err = service.UpdateStatus(context.Background(), admin, order.ID, domain.StatusDelivered)
	var invalid *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestCancelOrderPersistsRefund(t *testing.T) {
	service := newTestService(newFakeInventory(), &fakeNotifier{}, nil)

	order, err := service.PlaceOrder(context.Background(), shopper, validRequest())
	require.NoError(t, err)

	cancelled, err := service.UpdateStatus(context.Background(), admin, order.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, cancelled.PaymentStatus)

	// 退款状态要能读回来，而不是只留在内存对象上
	stored, err := service.GetOrder(context.Background(), shopper, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, domain.PaymentRefunded, stored.PaymentStatus)
}
