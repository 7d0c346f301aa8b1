// internal/pkg/zookeeper/conn.go
package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"

	"flashmart/internal/pkg/logger"
)

// DefaultSessionTimeout 是多数场景下合适的会话超时。
const DefaultSessionTimeout = 10 * time.Second

// Conn 封装一个 ZooKeeper 会话连接。
type Conn struct {
	*zk.Conn
}

// Connect 建立一个新的 ZooKeeper 会话。
func Connect(servers []string, sessionTimeout time.Duration) (*Conn, error) {
	conn, events, err := zk.Connect(servers, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}

	// 会话状态变化只做日志观测，重连由客户端库自行处理
	go func() {
		for event := range events {
			if event.State == zk.StateDisconnected || event.State == zk.StateExpired {
				logger.Warn().Str("state", event.State.String()).Msg("zookeeper session state changed")
			}
		}
	}()

	return &Conn{Conn: conn}, nil
}
