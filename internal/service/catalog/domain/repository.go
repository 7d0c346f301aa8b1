// internal/service/catalog/domain/repository.go
package domain

import "context"

// ProductFilter 是商品列表查询的过滤条件。
type ProductFilter struct {
	Category string // 为空或 "All" 时不过滤
	Search   string // 匹配名称或描述
}

// ProductRepository 定义了商品聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*Product, error)
	// FindAll 按创建时间倒序返回满足过滤条件的商品。
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Categories(ctx context.Context) ([]Category, error)

	// DecrementStock 原子地执行 "stock >= qty 则扣减" 并返回扣减后的库存。
	// 库存不足返回 ErrInsufficientStock，商品不存在返回 ErrProductNotFound。
	// 检查和扣减必须是单个原子步骤，这是超卖防护的根基。
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)

	// RestoreStock 是 DecrementStock 的补偿操作。
	RestoreStock(ctx context.Context, id string, qty int) (remaining int, err error)
}
