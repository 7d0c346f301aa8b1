// internal/service/order/application/saga/create_order.go
package saga

import (
	"github.com/pkg/errors"

	"flashmart/internal/service/order/domain"
)

// CreateOrderHandler 负责持久化订单。
// 订单号撞唯一索引时换号重试，次数极少，不做退避。
type CreateOrderHandler struct {
	NextHandler
	repo domain.OrderRepository
}

func NewCreateOrderHandler(repo domain.OrderRepository) *CreateOrderHandler {
	return &CreateOrderHandler{repo: repo}
}

const maxNumberRetries = 3

func (h *CreateOrderHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.CreateOrder")
	defer span.End()

	var err error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		err = h.repo.Insert(ctx, orderCtx.Order)
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
			break
		}
		orderCtx.Order.OrderNumber = domain.NewOrderNumber(orderCtx.Order.CreatedAt)
		span.AddEvent("order number collision, regenerated")
	}
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to persist order")
	}

	span.AddEvent("order persisted")
	return h.executeNext(orderCtx)
}
