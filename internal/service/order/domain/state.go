// internal/service/order/domain/state.go
package domain

// Status 定义了订单的生命周期状态。
type Status string

const (
	StatusPending    Status = "pending"    // 订单已落库，等待后台处理
	StatusProcessing Status = "processing" // 仓库正在拣货
	StatusShipped    Status = "shipped"    // 已发货
	StatusDelivered  Status = "delivered"  // 已签收，终态
	StatusCancelled  Status = "cancelled"  // 已取消，终态
)

// PaymentStatus 定义了订单的支付状态。
// 当前版本支付是模拟的，下单即视为已支付。
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// transitions 描述了每个状态允许流转到的下一批状态。
// 终态（delivered、cancelled）不再出现在 key 中。
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// ParseStatus 校验外部传入的状态字符串。
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(raw), nil
	}
	return "", &ValidationError{Field: "status", Message: "unknown order status: " + raw}
}

// CanTransitionTo 判断从当前状态流转到 next 是否合法。
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
