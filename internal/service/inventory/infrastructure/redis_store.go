// internal/service/inventory/infrastructure/redis_store.go
package infrastructure

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	redispkg "flashmart/internal/pkg/redis"
	catalogdomain "flashmart/internal/service/catalog/domain"
	"flashmart/internal/service/inventory/domain"
)

const reserveScriptName = "reserve_stock"

// reserveScript 在 Redis 内原子地完成 "检查并扣减"。
// 返回 {1, 剩余库存} 表示成功，{0, 当前库存} 表示库存不足，
// {-1, 0} 表示该商品的库存计数尚未加载。
var reserveScript = `
-- KEYS[1]: 库存计数的 Key, 例如: stock:{product-123}
-- ARGV[1]: 请求扣减的数量

local stock = tonumber(redis.call('get', KEYS[1]))
if not stock then
    return {-1, 0}
end

local qty = tonumber(ARGV[1])
if stock < qty then
    return {0, stock}
end

redis.call('decrby', KEYS[1], qty)
return {1, stock - qty}
`

// RedisStockStore 把权威库存计数放在 Redis 中，适合高并发抢购场景。
// 商品元数据（名称、价格）仍从目录仓储读取；库存计数通过 Lua 脚本
// 原子扣减。计数在进程启动时由 SyncFromCatalog 从目录加载。
type RedisStockStore struct {
	client  *redispkg.Client
	catalog catalogdomain.ProductRepository
}

func NewRedisStockStore(client *redispkg.Client, catalog catalogdomain.ProductRepository) (*RedisStockStore, error) {
	if err := client.LoadScriptFromContent(reserveScriptName, reserveScript); err != nil {
		return nil, fmt.Errorf("load reserve script: %w", err)
	}
	return &RedisStockStore{client: client, catalog: catalog}, nil
}

func stockKey(productID string) string {
	// hash tag 保证集群模式下同一商品的操作落在同一个 slot
	return fmt.Sprintf("stock:{%s}", productID)
}

// SyncFromCatalog 把目录中所有商品的库存计数写入 Redis。
func (s *RedisStockStore) SyncFromCatalog(ctx context.Context) error {
	products, err := s.catalog.FindAll(ctx, catalogdomain.ProductFilter{})
	if err != nil {
		return errors.Wrap(err, "load catalog for stock sync")
	}
	pipe := s.client.GetClient().Pipeline()
	for _, p := range products {
		pipe.Set(ctx, stockKey(p.ID), p.Stock, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "sync stock counters")
	}
	return nil
}

func (s *RedisStockStore) ProductInfo(ctx context.Context, id string) (*domain.ProductInfo, error) {
	product, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}

	stock, err := s.client.GetClient().Get(ctx, stockKey(id)).Int()
	if err != nil {
		// 计数未加载时以目录为准，并顺手补种
		stock = product.Stock
		s.client.GetClient().SetNX(ctx, stockKey(id), stock, 0)
	}

	return &domain.ProductInfo{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: stock,
	}, nil
}

func (s *RedisStockStore) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	result, err := s.client.RunScript(ctx, reserveScriptName, []string{stockKey(id)}, qty)
	if err != nil {
		return 0, errors.Wrap(err, "run reserve script")
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, fmt.Errorf("unexpected result from reserve script: %#v", result)
	}
	code, _ := values[0].(int64)
	count, _ := values[1].(int64)

	switch code {
	case 1:
		return int(count), nil
	case 0:
		return int(count), &domain.InsufficientStockError{ProductID: id, Requested: qty, Available: int(count)}
	case -1:
		return 0, &domain.ProductNotFoundError{ProductID: id}
	default:
		return 0, fmt.Errorf("unknown result code from reserve script: %d", code)
	}
}

func (s *RedisStockStore) RestoreStock(ctx context.Context, id string, qty int) (int, error) {
	remaining, err := s.client.GetClient().IncrBy(ctx, stockKey(id), int64(qty)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "restore stock counter")
	}
	return int(remaining), nil
}
