// internal/service/promotion/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	// ErrEmptyCode 表示请求里没有折扣码。
	ErrEmptyCode = errors.New("discount code is empty")

	// ErrCodeNotFound 表示折扣码不存在。
	ErrCodeNotFound = errors.New("invalid discount code")

	// ErrNotEligible 表示折扣码存在但当前订单不满足使用条件。
	ErrNotEligible = errors.New("discount code conditions not met")
)
