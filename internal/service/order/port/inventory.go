// internal/service/order/port/inventory.go
package port

import (
	"context"
	"fmt"
)

// ItemRequest 是一次库存预占请求中的一行。
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// ReservedItem 是预占成功后返回的一行，带冻结价格。
type ReservedItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// InventoryService 是订单流程对库存能力的出站端口。
// Reserve 是全有或全无的：任何一行失败，整个批次不产生扣减。
type InventoryService interface {
	Reserve(ctx context.Context, items []ItemRequest) ([]ReservedItem, error)
	Release(ctx context.Context, items []ReservedItem) error
}

// UnknownProductError 表示批次中某个商品不存在。
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.ProductID)
}

// StockConflictError 表示批次中某个商品库存不足。
// Available 是失败时刻的真实库存，接口层原样透出给客户端。
type StockConflictError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
