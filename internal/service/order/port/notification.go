// internal/service/order/port/notification.go
package port

import (
	"context"

	"flashmart/internal/service/order/domain"
)

// NotificationProducer 是订单流程对通知能力的出站端口。
// 发送失败是非关键路径错误，调用方记录后继续。
type NotificationProducer interface {
	SendOrderPlaced(ctx context.Context, order *domain.Order) error
}
