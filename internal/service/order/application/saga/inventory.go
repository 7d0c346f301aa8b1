// internal/service/order/application/saga/inventory.go
package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"flashmart/internal/pkg/logger"
)

// InventoryHandler 负责库存预占步骤。
// 预占成功后立即注册释放补偿，后续任何步骤失败都能把库存放回去。
type InventoryHandler struct {
	NextHandler
}

func (h *InventoryHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.InventoryReserve")
	defer span.End()

	span.SetAttributes(attribute.Int("order.lines", len(orderCtx.Items)))

	reserved, err := orderCtx.InventoryService.Reserve(ctx, orderCtx.Items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inventory reservation failed")
		return err
	}

	orderCtx.Reserved = reserved
	span.AddEvent("all items reserved")

	orderCtx.AddCompensation(func(compCtx context.Context) {
		compCtx, compSpan := orderCtx.Tracer.Start(compCtx, "saga.compensation.ReleaseStock")
		defer compSpan.End()

		// 补偿失败需要记录严重错误并人工介入
		if err := orderCtx.InventoryService.Release(compCtx, reserved); err != nil {
			compSpan.RecordError(err)
			logger.Ctx(compCtx).Error().Err(err).
				Str("order", orderCtx.Order.ID).
				Msg("CRITICAL: failed to release reserved stock")
		}
	})

	return h.executeNext(orderCtx)
}
