// internal/service/order/infrastructure/adapter/inventory_adapter.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	inventoryapp "flashmart/internal/service/inventory/application"
	inventorydomain "flashmart/internal/service/inventory/domain"
	orderdomain "flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

// InventoryAdapter 把库存模块的 Manager 适配成订单侧的
// port.InventoryService，并把库存侧的类型化错误翻译成端口错误，
// 订单模块因此不依赖库存模块的领域包。
type InventoryAdapter struct {
	manager *inventoryapp.Manager
}

func NewInventoryAdapter(manager *inventoryapp.Manager) *InventoryAdapter {
	return &InventoryAdapter{manager: manager}
}

func (a *InventoryAdapter) Reserve(ctx context.Context, items []port.ItemRequest) ([]port.ReservedItem, error) {
	lines := make([]inventorydomain.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventorydomain.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	reserved, err := a.manager.Reserve(ctx, lines)
	if err != nil {
		return nil, translateError(err)
	}

	result := make([]port.ReservedItem, 0, len(reserved))
	for _, line := range reserved {
		result = append(result, port.ReservedItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return result, nil
}

func (a *InventoryAdapter) Release(ctx context.Context, items []port.ReservedItem) error {
	lines := make([]inventorydomain.ReservedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventorydomain.ReservedLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return a.manager.Release(ctx, lines)
}

func translateError(err error) error {
	// 应用层在进入 Saga 前已做过行校验，这里兜底翻译一次
	if errors.Is(err, inventorydomain.ErrInvalidQuantity) || errors.Is(err, inventorydomain.ErrEmptyReservation) {
		return &orderdomain.ValidationError{Field: "items", Message: err.Error()}
	}
	var notFound *inventorydomain.ProductNotFoundError
	if errors.As(err, &notFound) {
		return &port.UnknownProductError{ProductID: notFound.ProductID}
	}
	var insufficient *inventorydomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return &port.StockConflictError{
			ProductID: insufficient.ProductID,
			Requested: insufficient.Requested,
			Available: insufficient.Available,
		}
	}
	return err
}
