// internal/service/promotion/application/service.go
package application

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/service/promotion/domain"
)

// AppliedDiscount 是一次成功套用折扣码的结果。
type AppliedDiscount struct {
	Code   string
	Amount float64
}

// PromotionService 提供折扣码的解析与套用用例。
type PromotionService struct {
	rules  domain.RuleRepository
	engine domain.RuleEngine
	tracer trace.Tracer
}

func NewPromotionService(rules domain.RuleRepository, engine domain.RuleEngine, tracer trace.Tracer) *PromotionService {
	return &PromotionService{rules: rules, engine: engine, tracer: tracer}
}

// Resolve 把折扣码解析为规则。查找不区分大小写，无任何副作用。
func (s *PromotionService) Resolve(ctx context.Context, code string) (*domain.Rule, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.Resolve")
	defer span.End()

	normalized := strings.ToUpper(strings.TrimSpace(code))
	span.SetAttributes(attribute.String("discount.code", normalized))

	if normalized == "" {
		return nil, domain.ErrEmptyCode
	}
	return s.rules.FindByCode(ctx, normalized)
}

// ApplyToPurchase 在下单时刻套用折扣码：解析规则、评估使用条件、
// 计算对给定小计的折扣金额（已做不超过小计的截断）。
func (s *PromotionService) ApplyToPurchase(ctx context.Context, code string, fact domain.Fact) (AppliedDiscount, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.ApplyToPurchase")
	defer span.End()

	rule, err := s.Resolve(ctx, code)
	if err != nil {
		span.RecordError(err)
		return AppliedDiscount{}, err
	}

	if rule.Condition != "" {
		eligible, err := s.engine.Evaluate(rule.Condition, fact)
		if err != nil {
			span.RecordError(err)
			return AppliedDiscount{}, err
		}
		if !eligible {
			logger.Ctx(ctx).Info().
				Str("discount.code", rule.Code).
				Float64("subtotal", fact.Subtotal).
				Msg("discount code rejected by rule condition")
			return AppliedDiscount{}, domain.ErrNotEligible
		}
	}

	amount := rule.Apply(fact.Subtotal)
	span.SetAttributes(attribute.Float64("discount.amount", amount))
	return AppliedDiscount{Code: rule.Code, Amount: amount}, nil
}
