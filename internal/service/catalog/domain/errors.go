// internal/service/catalog/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	// ErrProductNotFound 表示商品不存在。
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock 表示条件扣减失败：当前库存小于请求数量。
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidProduct 表示商品字段校验失败。
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCategory 表示分类不在固定枚举内。
	ErrInvalidCategory = errors.New("invalid category")
)
