// internal/service/order/application/saga/pricing.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

// PricingHandler 负责按冻结价格定价并套用折扣码。
// 必须排在 InventoryHandler 之后，定价依赖预占时冻结的单价。
type PricingHandler struct {
	NextHandler
}

func (h *PricingHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Pricing")
	defer span.End()

	lines := make([]domain.OrderLine, 0, len(orderCtx.Reserved))
	for _, item := range orderCtx.Reserved {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	// 先按未打折的小计判定折扣资格
	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal()
	}

	var applied *domain.AppliedDiscount
	if orderCtx.DiscountCode != "" {
		facts := port.PurchaseFacts{
			Subtotal:   subtotal,
			ItemCount:  itemCount(orderCtx.Reserved),
			CustomerID: orderCtx.Order.CustomerID,
		}
		discount, err := orderCtx.DiscountService.Apply(ctx, orderCtx.DiscountCode, facts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "discount rejected")
			return err
		}
		applied = &domain.AppliedDiscount{Code: discount.Code, Amount: discount.Amount}
		span.SetAttributes(attribute.String("discount.code", discount.Code))
	}

	orderCtx.Order.SetPricing(lines, applied)

	span.SetAttributes(
		attribute.Float64("order.subtotal", orderCtx.Order.Subtotal),
		attribute.Float64("order.total", orderCtx.Order.Total),
	)

	return h.executeNext(orderCtx)
}

func itemCount(items []port.ReservedItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
