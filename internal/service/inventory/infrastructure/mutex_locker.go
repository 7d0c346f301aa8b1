// internal/service/inventory/infrastructure/mutex_locker.go
package infrastructure

import (
	"context"
	"sync"
)

// KeyedMutexLocker 是进程内的商品维度互斥锁，单实例部署时使用。
type KeyedMutexLocker struct {
	mutexes sync.Map // productID -> *sync.Mutex
}

func NewKeyedMutexLocker() *KeyedMutexLocker {
	return &KeyedMutexLocker{}
}

func (l *KeyedMutexLocker) Acquire(_ context.Context, key string) (func(), error) {
	value, _ := l.mutexes.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, nil
}
