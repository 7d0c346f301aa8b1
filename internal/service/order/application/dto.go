// internal/service/order/application/dto.go
package application

import (
	"strings"

	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

// LineRequest 是下单请求中的一行商品。
type LineRequest struct {
	ProductID string
	Quantity  int
}

// PlaceOrderRequest 是下单用例的输入。客户端可能一并提交
// 它本地算出的金额，服务端忽略并按冻结价格重算。
type PlaceOrderRequest struct {
	Items        []LineRequest
	DiscountCode string
	Shipping     domain.ShippingAddress
}

// validate 把无效的商品行挡在 Saga 之外，避免它们触达库存预占。
func (r *PlaceOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return &domain.ValidationError{Field: "items", Message: "order must contain at least one item"}
	}
	for _, line := range r.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return &domain.ValidationError{Field: "items", Message: "product id is required"}
		}
		if line.Quantity < 1 {
			return &domain.ValidationError{Field: "items", Message: "quantity must be at least 1"}
		}
	}
	return nil
}

func (r *PlaceOrderRequest) toItemRequests() []port.ItemRequest {
	items := make([]port.ItemRequest, 0, len(r.Items))
	for _, line := range r.Items {
		items = append(items, port.ItemRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}
