// internal/service/inventory/domain/reservation.go
package domain

import "context"

// Line 是一条预占请求：商品和期望数量。
type Line struct {
	ProductID string
	Quantity  int
}

// ReservedLine 是一条已成功预占的记录。
// UnitPrice 是预占那一刻读取的单价，订单行用它作为冻结价格，
// 之后目录价格的任何变动都不再影响这笔订单。
type ReservedLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// ProductInfo 是库存视角下的商品快照。
type ProductInfo struct {
	ID    string
	Name  string
	Price float64
	Stock int
}

// StockStore 是库存计数的出站端口。
// DecrementStock 的 "检查并扣减" 必须是单个原子步骤：两个并发请求
// 竞争最后一件库存时只能有一个成功。
type StockStore interface {
	ProductInfo(ctx context.Context, id string) (*ProductInfo, error)
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)
	RestoreStock(ctx context.Context, id string, qty int) (remaining int, err error)
}

// Locker 在商品维度上串行化预占操作。
// 不同商品上的预占互不阻塞，同一商品上的预占排队执行。
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// StockPublisher 把库存变更广播给在线客户端。
type StockPublisher interface {
	PublishStockChange(productID string, stock int)
}
