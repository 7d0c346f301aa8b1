// internal/service/promotion/infrastructure/static_repository.go
package infrastructure

import (
	"context"

	"flashmart/internal/service/promotion/domain"
)

// StaticRuleRepository 是 RuleRepository 的内存实现。
// 演示环境使用固定规则表；接口不变的前提下可以换成带过期时间
// 和使用次数限制的数据库实现。
type StaticRuleRepository struct {
	rules map[string]*domain.Rule
}

func NewStaticRuleRepository(rules []*domain.Rule) *StaticRuleRepository {
	table := make(map[string]*domain.Rule, len(rules))
	for _, r := range rules {
		table[r.Code] = r
	}
	return &StaticRuleRepository{rules: table}
}

// DefaultRules 返回演示用的折扣码表。
func DefaultRules() []*domain.Rule {
	return []*domain.Rule{
		{Code: "FLASH10", Kind: domain.KindPercentage, Value: 10},
		{Code: "FLASH20", Kind: domain.KindPercentage, Value: 20},
		{Code: "SAVE50", Kind: domain.KindFixed, Value: 50},
		// 满 20 可用的小额新客券
		{Code: "WELCOME5", Kind: domain.KindFixed, Value: 5, Condition: "subtotal >= 20.0"},
	}
}

func (r *StaticRuleRepository) FindByCode(_ context.Context, code string) (*domain.Rule, error) {
	rule, ok := r.rules[code]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	clone := *rule
	return &clone, nil
}
