// cmd/notification-worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"flashmart/internal/notification"
	"flashmart/internal/pkg/bootstrap"
	"flashmart/internal/pkg/config"
	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/mq"
	"flashmart/internal/pkg/tracing"
)

const (
	serviceName     = "notification-worker"
	consumerGroupID = "notification-worker-group"
)

func main() {
	cfg := bootstrap.Init(serviceName)

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Jaeger.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	defer tp.Shutdown(context.Background())

	reader := mq.NewKafkaReader(config.SplitAddrs(cfg.Kafka.Brokers), cfg.Kafka.OrderEventsTopic, consumerGroupID)
	consumer := notification.NewConsumerAdapter(reader, notification.LogSender{}, otel.Tracer(serviceName))

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down notification worker")
	cancel()
	consumer.Stop()
}
