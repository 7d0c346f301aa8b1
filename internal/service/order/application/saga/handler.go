// internal/service/order/application/saga/handler.go
package saga

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

// OrderContext 在下单 Saga 流程中传递上下文数据。
// 所有外部依赖都是抽象的出站端口。
type OrderContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer

	// 下单请求的原始输入
	Items        []port.ItemRequest
	DiscountCode string

	// 库存预占成功后由 InventoryHandler 填充
	Reserved []port.ReservedItem

	InventoryService port.InventoryService
	DiscountService  port.DiscountService
	Notifier         port.NotificationProducer

	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 注册一个补偿动作。补偿按注册的逆序执行。
func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation 逆序执行全部已注册的补偿动作。
func (c *OrderContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().
		Str("order", c.Order.ID).
		Int("compensations", len(c.compensations)).
		Msg("executing saga compensations")
	for _, comp := range c.compensations {
		comp(ctx)
	}
}

// Handler 是责任链中单个步骤的接口。
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
