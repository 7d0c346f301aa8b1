// internal/service/order/domain/errors.go
package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOrderNotFound 表示订单不存在。
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotAuthorized 表示订单存在，但当前用户无权访问。
	// 与 ErrOrderNotFound 分开返回，接口层据此映射 403 / 404。
	ErrNotAuthorized = errors.New("not authorized to access this order")

	// ErrDuplicateOrderNumber 表示订单号撞库，调用方换号重试。
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// ValidationError 描述一个字段级的校验失败。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InvalidTransitionError 表示状态机不允许的流转。
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
