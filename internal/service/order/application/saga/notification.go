// internal/service/order/application/saga/notification.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"flashmart/internal/pkg/logger"
)

// NotificationHandler 是链的最后一步，负责发送下单成功通知。
// 发送失败是非关键路径错误：只记警告，整个流程仍然算成功，
// 后续靠监控告警和后台任务补偿。
type NotificationHandler struct {
	NextHandler
}

func (h *NotificationHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Notification")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("order.number", orderCtx.Order.OrderNumber),
	)

	if err := orderCtx.Notifier.SendOrderPlaced(ctx, orderCtx.Order); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).
			Str("order", orderCtx.Order.ID).
			Msg("failed to publish order placed notification")
	}

	return h.executeNext(orderCtx)
}
