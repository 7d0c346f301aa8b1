// internal/service/order/domain/number.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber 生成形如 FM82934501-A3F2C1 的订单号。
// 数字部分取毫秒时间戳的后 8 位，方便客服按时间段粗查；
// 后缀取 UUID 的前 6 个十六进制字符，消除同一毫秒内的碰撞。
// 数据库对订单号有唯一索引兜底，撞库时由仓储返回
// ErrDuplicateOrderNumber，调用方换号重试。
func NewOrderNumber(now time.Time) string {
	millis := now.UnixMilli()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("FM%08d-%s", millis%100000000, suffix)
}
