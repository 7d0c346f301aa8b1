// internal/push/hub.go
package push

import (
	"encoding/json"
	"sync"
	"time"

	"flashmart/internal/pkg/logger"
)

// StockChangeMessage 是推送给前端的库存变化消息。
type StockChangeMessage struct {
	Type      string    `json:"type"`
	ProductID string    `json:"productId"`
	Stock     int       `json:"stock"`
	At        time.Time `json:"at"`
}

// Hub 维护所有活跃的 WebSocket 连接，并把库存变化广播给全部客户端。
// 库存推送不区分用户，所有在浏览商品页的客户端都关心同一份库存。
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run 是 Hub 的事件循环，必须在单独的 goroutine 里执行。
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			logger.Info().Int("clients", len(h.clients)).Msg("websocket client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			logger.Info().Int("clients", len(h.clients)).Msg("websocket client disconnected")
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 写缓冲已满的慢客户端直接断开
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Close 停止事件循环并断开所有客户端。
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// PublishStockChange 把库存变化广播给所有客户端。
// 实现了库存模块和商品目录模块的推送端口。
func (h *Hub) PublishStockChange(productID string, stock int) {
	payload, err := json.Marshal(StockChangeMessage{
		Type:      "stock_change",
		ProductID: productID,
		Stock:     stock,
		At:        time.Now(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal stock change message")
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		// 广播通道满时丢弃本条，客户端的下一次刷新会拿到最新库存
		logger.Warn().Str("product", productID).Msg("stock broadcast channel full, message dropped")
	}
}
