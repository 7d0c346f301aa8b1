// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"flashmart/internal/pkg/config"
)

// Client 是 go-redis 的薄封装，额外维护一张按名字索引的 Lua 脚本表。
// 脚本通过 EVALSHA 执行，脚本未加载时 go-redis 会自动回退到 EVAL。
type Client struct {
	rdb     redis.UniversalClient
	mu      sync.RWMutex
	scripts map[string]*redis.Script
}

// NewClient 按地址数量自动选择单机或集群模式。
func NewClient(addrs string) (*Client, error) {
	list := config.SplitAddrs(addrs)
	if len(list) == 0 {
		return nil, fmt.Errorf("redis: no addresses configured")
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: list})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return &Client{
		rdb:     rdb,
		scripts: make(map[string]*redis.Script),
	}, nil
}

// LoadScriptFromContent 注册一段 Lua 脚本，后续通过 RunScript 按名字执行。
func (c *Client) LoadScriptFromContent(name, content string) error {
	if content == "" {
		return fmt.Errorf("redis: script %q is empty", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scripts[name] = redis.NewScript(content)
	return nil
}

// RunScript 执行已注册的脚本。
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.mu.RLock()
	script, ok := c.scripts[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("redis: script %q not loaded", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

// GetClient 暴露底层客户端，供需要 pipeline 等高级操作的调用方使用。
func (c *Client) GetClient() redis.UniversalClient {
	return c.rdb
}

// Close 关闭底层连接。
func (c *Client) Close() error {
	return c.rdb.Close()
}
