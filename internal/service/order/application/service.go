// internal/service/order/application/service.go
package application

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/pkg/auth"
	"flashmart/internal/pkg/logger"
	"flashmart/internal/service/order/application/saga"
	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

var ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flashmart_orders_total",
	Help: "Order placement attempts by outcome.",
}, []string{"outcome"})

// OrderApplicationService 只负责下单流程的编排和订单的读路径，
// 库存、促销、通知都通过出站端口访问。
type OrderApplicationService struct {
	repo      domain.OrderRepository
	inventory port.InventoryService
	discounts port.DiscountService
	notifier  port.NotificationProducer
	tracer    trace.Tracer
}

func NewOrderApplicationService(repo domain.OrderRepository, inventory port.InventoryService,
	discounts port.DiscountService, notifier port.NotificationProducer, tracer trace.Tracer) *OrderApplicationService {
	return &OrderApplicationService{
		repo:      repo,
		inventory: inventory,
		discounts: discounts,
		notifier:  notifier,
		tracer:    tracer,
	}
}

// PlaceOrder 执行完整的下单 Saga：预占库存 -> 定价 -> 持久化 -> 通知。
// 任何一步失败都会触发已注册补偿，库存回到下单前的状态。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, principal auth.Principal, req *PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer.id", principal.UserID),
		attribute.Int("order.lines", len(req.Items)),
	)

	if err := req.validate(); err != nil {
		span.RecordError(err)
		ordersTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	order, err := domain.NewOrder(principal.UserID, req.Shipping)
	if err != nil {
		span.RecordError(err)
		ordersTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	orderCtx := &saga.OrderContext{
		Ctx:              ctx,
		Order:            order,
		Tracer:           s.tracer,
		Items:            req.toItemRequests(),
		DiscountCode:     req.DiscountCode,
		InventoryService: s.inventory,
		DiscountService:  s.discounts,
		Notifier:         s.notifier,
	}

	chain := s.buildChain()
	if err := chain.Handle(orderCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order placement chain failed")
		logger.Ctx(ctx).Error().Err(err).
			Str("order", order.ID).
			Str("customer", principal.UserID).
			Msg("order placement failed, triggering compensation")
		orderCtx.TriggerCompensation(ctx)
		ordersTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order", order.ID).
		Str("number", order.OrderNumber).
		Float64("total", order.Total).
		Msg("order placed")
	ordersTotal.WithLabelValues("placed").Inc()
	return order, nil
}

// GetOrder 返回单个订单。非订单归属人且非管理员时返回
// ErrNotAuthorized，与订单不存在区分开。
func (s *OrderApplicationService) GetOrder(ctx context.Context, principal auth.Principal, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != principal.UserID && !principal.IsAdmin {
		return nil, domain.ErrNotAuthorized
	}
	return order, nil
}

// ListCustomerOrders 返回某个用户的订单列表，按创建时间倒序。
func (s *OrderApplicationService) ListCustomerOrders(ctx context.Context, principal auth.Principal, customerID string) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListCustomerOrders")
	defer span.End()

	if customerID != principal.UserID && !principal.IsAdmin {
		return nil, domain.ErrNotAuthorized
	}
	return s.repo.FindByCustomer(ctx, customerID)
}

// ListAllOrders 返回全量订单，仅后台使用。
func (s *OrderApplicationService) ListAllOrders(ctx context.Context, principal auth.Principal) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListAllOrders")
	defer span.End()

	if !principal.IsAdmin {
		return nil, domain.ErrNotAuthorized
	}
	return s.repo.FindAll(ctx)
}

// UpdateStatus 按状态机流转订单状态，仅后台使用。
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, principal auth.Principal, id string, next domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrderStatus")
	defer span.End()

	if !principal.IsAdmin {
		return nil, domain.ErrNotAuthorized
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(next); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, next, order.PaymentStatus); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order", id).
		Str("status", string(next)).
		Msg("order status updated")
	return order, nil
}

func (s *OrderApplicationService) buildChain() saga.Handler {
	chain := new(saga.InventoryHandler)
	chain.
		SetNext(new(saga.PricingHandler)).
		SetNext(saga.NewCreateOrderHandler(s.repo)).
		SetNext(new(saga.NotificationHandler))
	return chain
}
