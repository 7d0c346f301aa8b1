// internal/notification/consumer_test.go
package notification

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/goleak"

	orderdomain "flashmart/internal/service/order/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// channelReader 用通道模拟一个 kafka reader：Close 之后
// FetchMessage 返回 io.EOF，与真实 reader 的行为一致。
type channelReader struct {
	messages  chan kafka.Message
	closeOnce sync.Once

	mu        sync.Mutex
	committed []kafka.Message
}

func newChannelReader(buffer int) *channelReader {
	return &channelReader{messages: make(chan kafka.Message, buffer)}
}

func (r *channelReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg, ok := <-r.messages:
		if !ok {
			return kafka.Message{}, io.EOF
		}
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *channelReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *channelReader) Close() error {
	r.closeOnce.Do(func() { close(r.messages) })
	return nil
}

type recordingSender struct {
	mu     sync.Mutex
	events []orderdomain.OrderPlacedEvent
}

func (s *recordingSender) SendOrderConfirmation(_ context.Context, event *orderdomain.OrderPlacedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *recordingSender) all() []orderdomain.OrderPlacedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orderdomain.OrderPlacedEvent(nil), s.events...)
}

func TestConsumerDeliversAndCommits(t *testing.T) {
	reader := newChannelReader(1)
	sender := &recordingSender{}
	consumer := NewConsumerAdapter(reader, sender, otel.Tracer("test"))

	payload, err := json.Marshal(orderdomain.OrderPlacedEvent{
		OrderID:     "o-1",
		OrderNumber: "FM00000001-ABCDEF",
		CustomerID:  "user-1",
		Total:       40.50,
	})
	require.NoError(t, err)
	reader.messages <- kafka.Message{Value: payload}

	consumer.Start(context.Background())

	require.Eventually(t, func() bool {
		return len(sender.all()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "FM00000001-ABCDEF", sender.all()[0].OrderNumber)

	consumer.Stop()

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Len(t, reader.committed, 1)
}

// Stop 关闭 reader 后消费 goroutine 必须自行退出，泄漏由 goleak 兜底。
func TestConsumerStopUnblocksFetch(t *testing.T) {
	reader := newChannelReader(0)
	consumer := NewConsumerAdapter(reader, &recordingSender{}, otel.Tracer("test"))

	consumer.Start(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return, consumer goroutine is stuck")
	}
}
