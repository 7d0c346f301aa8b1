// internal/service/order/domain/events.go
package domain

// OrderPlacedEvent 是订单创建成功后发往消息队列的领域事件，
// 下游的通知 worker 消费它给用户发确认消息。
type OrderPlacedEvent struct {
	OrderID      string  `json:"orderId"`
	OrderNumber  string  `json:"orderNumber"`
	CustomerID   string  `json:"customerId"`
	Email        string  `json:"email"`
	Total        float64 `json:"total"`
	DiscountCode string  `json:"discountCode,omitempty"`
	ItemCount    int     `json:"itemCount"`
}

// NewOrderPlacedEvent 从订单聚合构造事件载荷。
func NewOrderPlacedEvent(order *Order) OrderPlacedEvent {
	event := OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Email:       order.Shipping.Email,
		Total:       order.Total,
		ItemCount:   order.ItemCount(),
	}
	if order.Discount != nil {
		event.DiscountCode = order.Discount.Code
	}
	return event
}
