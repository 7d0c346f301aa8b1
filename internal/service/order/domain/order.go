// internal/service/order/domain/order.go
package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderLine 是订单中的一行商品，价格在库存预占成功时冻结，
// 之后商品改价不影响已生成的订单。
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}

// LineTotal 返回该行的小计。
func (l OrderLine) LineTotal() float64 {
	return roundCents(l.UnitPrice * float64(l.Quantity))
}

// AppliedDiscount 记录成交时生效的折扣码及其抵扣金额。
type AppliedDiscount struct {
	Code   string
	Amount float64
}

// ShippingAddress 是下单时提交的收货信息值对象。
type ShippingAddress struct {
	Name    string
	Email   string
	Address string
	City    string
	ZipCode string
	Country string
}

// Validate 逐字段检查收货信息，返回第一个不合法的字段。
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Message: "recipient name is required"}
	}
	if !strings.Contains(a.Email, "@") {
		return &ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if strings.TrimSpace(a.Address) == "" {
		return &ValidationError{Field: "address", Message: "street address is required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return &ValidationError{Field: "city", Message: "city is required"}
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		return &ValidationError{Field: "zipCode", Message: "zip code is required"}
	}
	if strings.TrimSpace(a.Country) == "" {
		return &ValidationError{Field: "country", Message: "country is required"}
	}
	return nil
}

// Order 是订单聚合根。金额字段全部由服务端根据冻结价格重新计算，
// 客户端提交的金额只作展示参考。
type Order struct {
	ID            string
	OrderNumber   string
	CustomerID    string
	Items         []OrderLine
	Subtotal      float64
	Discount      *AppliedDiscount
	Total         float64
	Status        Status
	PaymentStatus PaymentStatus
	Shipping      ShippingAddress
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder 创建一个待定价的订单骨架。商品行和金额由后续的
// 库存预占、定价步骤填充。
func NewOrder(customerID string, shipping ShippingAddress) (*Order, error) {
	if customerID == "" {
		return nil, &ValidationError{Field: "customerId", Message: "customer id is required"}
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Order{
		ID:            uuid.NewString(),
		OrderNumber:   NewOrderNumber(now),
		CustomerID:    customerID,
		Status:        StatusPending,
		PaymentStatus: PaymentPaid, // 支付为模拟实现，下单即已支付
		Shipping:      shipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetPricing 写入冻结后的商品行并重算金额。
// 折扣金额不会超过小计，总额不会为负。
func (o *Order) SetPricing(items []OrderLine, discount *AppliedDiscount) {
	o.Items = items

	var subtotal float64
	for _, line := range items {
		subtotal += line.LineTotal()
	}
	o.Subtotal = roundCents(subtotal)

	o.Discount = nil
	o.Total = o.Subtotal
	if discount != nil {
		amount := math.Min(discount.Amount, o.Subtotal)
		o.Discount = &AppliedDiscount{Code: discount.Code, Amount: roundCents(amount)}
		o.Total = roundCents(o.Subtotal - o.Discount.Amount)
	}
	o.UpdatedAt = time.Now()
}

// TransitionTo 按状态机规则流转订单状态。
// 已支付的订单被取消时，支付状态同步流转为已退款。
func (o *Order) TransitionTo(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	if next == StatusCancelled && o.PaymentStatus == PaymentPaid {
		o.PaymentStatus = PaymentRefunded
	}
	o.UpdatedAt = time.Now()
	return nil
}

// ItemCount 返回订单内商品的总件数。
func (o *Order) ItemCount() int {
	count := 0
	for _, line := range o.Items {
		count += line.Quantity
	}
	return count
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
