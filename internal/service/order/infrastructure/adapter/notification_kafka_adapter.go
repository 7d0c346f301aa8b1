// internal/service/order/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"flashmart/internal/pkg/mq"
	"flashmart/internal/service/order/domain"
)

// NotificationKafkaAdapter 实现了 port.NotificationProducer。
// 事件发往哪个主题由注入的 writer 决定。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

// SendOrderPlaced 把下单成功事件发往消息队列。
// 以用户 ID 作为分区键，同一用户的通知保持有序。
func (a *NotificationKafkaAdapter) SendOrderPlaced(ctx context.Context, order *domain.Order) error {
	event := domain.NewOrderPlacedEvent(order)
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order placed event")
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(order.CustomerID), payload)
}

// Close 关闭底层的 Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
