// internal/service/order/infrastructure/adapter/discount_adapter.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	"flashmart/internal/service/order/port"
	promotionapp "flashmart/internal/service/promotion/application"
	promotiondomain "flashmart/internal/service/promotion/domain"
)

// DiscountAdapter 把促销模块的 PromotionService 适配成订单侧的
// port.DiscountService。促销侧的拒绝原因统一折叠成
// port.ErrDiscountRejected，原始信息保留在错误链里。
type DiscountAdapter struct {
	promotions *promotionapp.PromotionService
}

func NewDiscountAdapter(promotions *promotionapp.PromotionService) *DiscountAdapter {
	return &DiscountAdapter{promotions: promotions}
}

func (a *DiscountAdapter) Apply(ctx context.Context, code string, facts port.PurchaseFacts) (port.AppliedDiscount, error) {
	applied, err := a.promotions.ApplyToPurchase(ctx, code, promotiondomain.Fact{
		Subtotal:   facts.Subtotal,
		ItemCount:  facts.ItemCount,
		CustomerID: facts.CustomerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, promotiondomain.ErrEmptyCode),
			errors.Is(err, promotiondomain.ErrCodeNotFound),
			errors.Is(err, promotiondomain.ErrNotEligible):
			return port.AppliedDiscount{}, errors.Wrap(port.ErrDiscountRejected, err.Error())
		}
		return port.AppliedDiscount{}, err
	}
	return port.AppliedDiscount{Code: applied.Code, Amount: applied.Amount}, nil
}
