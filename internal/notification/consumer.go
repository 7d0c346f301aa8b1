// internal/notification/consumer.go
package notification

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/mq"
	orderdomain "flashmart/internal/service/order/domain"
)

// Sender 抽象了一种通知渠道。
type Sender interface {
	SendOrderConfirmation(ctx context.Context, event *orderdomain.OrderPlacedEvent) error
}

// MessageReader 是 *kafka.Reader 实现的最小读取接口。
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerAdapter 是一个驱动适配器：监听下单成功事件并驱动通知发送。
// 退出只通过两条路径触发：上层取消 ctx，或 Stop 关闭 reader 后
// FetchMessage 返回 io.EOF。消费 goroutine 不与 Stop 共享任何可变状态。
type ConsumerAdapter struct {
	reader MessageReader
	sender Sender
	tracer trace.Tracer
	wg     sync.WaitGroup
}

func NewConsumerAdapter(reader MessageReader, sender Sender, tracer trace.Tracer) *ConsumerAdapter {
	return &ConsumerAdapter{reader: reader, sender: sender, tracer: tracer}
}

// Start 开始监听 Kafka 主题。这是一个长期运行的方法。
func (a *ConsumerAdapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Info().Msg("notification consumer started")
		for {
			// 用 FetchMessage 而不是 ReadMessage，便于控制提交和退出时机
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					logger.Info().Msg("notification consumer shutting down")
					return
				}
				logger.Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(time.Second) // 避免快速失败循环
				continue
			}

			a.processMessage(ctx, msg)

			if err := a.reader.CommitMessages(ctx, msg); err != nil {
				logger.Error().Err(err).Msg("failed to commit messages")
			}
		}
	}()
}

// Stop 优雅地停止消费者。关闭 reader 让阻塞中的 FetchMessage
// 返回 io.EOF，再等消费 goroutine 退出。
func (a *ConsumerAdapter) Stop() {
	a.reader.Close()
	a.wg.Wait()
	logger.Info().Msg("notification consumer stopped")
}

func (a *ConsumerAdapter) processMessage(parentCtx context.Context, msg kafka.Message) {
	var event orderdomain.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 解析不了的消息直接跳过，生产环境应移入死信队列
		logger.Error().Err(err).Msg("failed to unmarshal order placed event, skipping")
		return
	}

	propagator := otel.GetTextMapPropagator()
	headerCarrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := propagator.Extract(parentCtx, &headerCarrier)

	ctx, span := a.tracer.Start(ctx, "notification.OrderConfirmation", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()
	span.SetAttributes(
		attribute.String("order.number", event.OrderNumber),
		attribute.String("customer.id", event.CustomerID),
	)

	if err := a.sender.SendOrderConfirmation(ctx, &event); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order", event.OrderID).
			Msg("failed to send order confirmation")
	}
}

// LogSender 把确认通知打到日志里，是邮件网关接入前的占位实现。
type LogSender struct{}

func (LogSender) SendOrderConfirmation(ctx context.Context, event *orderdomain.OrderPlacedEvent) error {
	logger.Ctx(ctx).Info().
		Str("order", event.OrderNumber).
		Str("email", event.Email).
		Float64("total", event.Total).
		Msg("order confirmation sent")
	return nil
}
