// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Insert 持久化一个新订单。订单号撞唯一索引时返回
	// ErrDuplicateOrderNumber。
	Insert(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找订单，不存在时返回 ErrOrderNotFound。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByCustomer 返回某个用户的全部订单，按创建时间倒序。
	FindByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// FindAll 返回所有订单，按创建时间倒序。仅后台使用。
	FindAll(ctx context.Context) ([]*Order, error)

	// UpdateStatus 持久化一次状态流转，连同流转引起的支付状态变化
	// （取消已支付订单时退款）。
	UpdateStatus(ctx context.Context, id string, status Status, payment PaymentStatus) error
}
