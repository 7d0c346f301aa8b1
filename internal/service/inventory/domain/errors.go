// internal/service/inventory/domain/errors.go
package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyReservation 表示预占请求里没有任何商品行。
	ErrEmptyReservation = errors.New("reservation contains no lines")

	// ErrInvalidQuantity 表示某行的数量小于 1。
	ErrInvalidQuantity = errors.New("reservation quantity must be at least 1")
)

// ProductNotFoundError 标识批次中第一个不存在的商品。
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// InsufficientStockError 标识批次中第一个库存不足的商品。
// Available 是失败那一刻的真实库存，而不是请求开始时读到的值，
// 客户端据此调整数量后重试。
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
