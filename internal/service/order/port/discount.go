// internal/service/order/port/discount.go
package port

import (
	"context"

	"github.com/pkg/errors"
)

// ErrDiscountRejected 表示折扣码为空、不存在或不满足使用条件。
// 适配器把促销侧的具体错误统一折叠到这个哨兵上，订单流程
// 不关心被拒的具体原因。
var ErrDiscountRejected = errors.New("discount code rejected")

// PurchaseFacts 是折扣判定需要的订单事实。
type PurchaseFacts struct {
	Subtotal   float64
	ItemCount  int
	CustomerID string
}

// AppliedDiscount 是折扣判定成功后的结果。
type AppliedDiscount struct {
	Code   string
	Amount float64
}

// DiscountService 是订单流程对促销能力的出站端口。
type DiscountService interface {
	Apply(ctx context.Context, code string, facts PurchaseFacts) (AppliedDiscount, error)
}
