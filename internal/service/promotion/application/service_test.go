// internal/service/promotion/application/service_test.go
package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"flashmart/internal/service/promotion/domain"
	"flashmart/internal/service/promotion/infrastructure"
	"flashmart/internal/service/promotion/infrastructure/rule"
)

func newTestService(t *testing.T) *PromotionService {
	t.Helper()
	engine, err := rule.NewCELRuleEngine()
	require.NoError(t, err)
	repo := infrastructure.NewStaticRuleRepository(infrastructure.DefaultRules())
	return NewPromotionService(repo, engine, otel.Tracer("test"))
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	service := newTestService(t)

	for _, code := range []string{"FLASH10", "flash10", "  Flash10  "} {
		found, err := service.Resolve(context.Background(), code)
		require.NoError(t, err, code)
		assert.Equal(t, "FLASH10", found.Code)
		assert.Equal(t, domain.KindPercentage, found.Kind)
		assert.Equal(t, 10.0, found.Value)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	service := newTestService(t)

	_, err := service.Resolve(context.Background(), "BOGUS")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)
}

func TestResolveEmptyCode(t *testing.T) {
	service := newTestService(t)

	_, err := service.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyCode)
}

func TestApplyPercentageDiscount(t *testing.T) {
	service := newTestService(t)

	applied, err := service.ApplyToPurchase(context.Background(), "FLASH10", domain.Fact{Subtotal: 45.00, ItemCount: 3})
	require.NoError(t, err)
	assert.Equal(t, "FLASH10", applied.Code)
	assert.Equal(t, 4.50, applied.Amount)
}

func TestApplyFixedDiscountClampedToSubtotal(t *testing.T) {
	service := newTestService(t)

	// SAVE50 减 50，但小计只有 30：折扣被截断，总价落到 0 而不是负数
	applied, err := service.ApplyToPurchase(context.Background(), "SAVE50", domain.Fact{Subtotal: 30.00, ItemCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 30.00, applied.Amount)
}

func TestApplyConditionalCode(t *testing.T) {
	service := newTestService(t)

	// WELCOME5 要求 subtotal >= 20
	_, err := service.ApplyToPurchase(context.Background(), "WELCOME5", domain.Fact{Subtotal: 15.00, ItemCount: 1})
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	applied, err := service.ApplyToPurchase(context.Background(), "WELCOME5", domain.Fact{Subtotal: 25.00, ItemCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 5.00, applied.Amount)
}

func TestRuleApplyRounding(t *testing.T) {
	rule := &domain.Rule{Code: "FLASH10", Kind: domain.KindPercentage, Value: 10}
	assert.Equal(t, 3.33, rule.Apply(33.33))
	assert.Equal(t, 4.5, rule.Apply(45))
	assert.Equal(t, 0.0, rule.Apply(0))
}
