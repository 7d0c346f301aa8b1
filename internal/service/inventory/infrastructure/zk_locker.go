// internal/service/inventory/infrastructure/zk_locker.go
package infrastructure

import (
	"context"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/zookeeper"
)

// ZookeeperLocker 用 ZooKeeper 临时顺序节点实现跨实例的商品维度锁，
// storefront 多副本部署时替代进程内互斥锁。
type ZookeeperLocker struct {
	conn *zookeeper.Conn
}

func NewZookeeperLocker(conn *zookeeper.Conn) *ZookeeperLocker {
	return &ZookeeperLocker{conn: conn}
}

func (l *ZookeeperLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, "product-"+key)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Error().Err(err).Str("product.id", key).Msg("failed to release distributed lock")
		}
	}, nil
}
