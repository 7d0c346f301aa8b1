// internal/service/promotion/domain/discount.go
package domain

import (
	"context"
	"math"
)

// Kind 区分折扣规则的计算方式。
type Kind string

const (
	KindPercentage Kind = "percentage" // 按小计的百分比减免
	KindFixed      Kind = "fixed"      // 固定金额减免
)

// Rule 是一条折扣规则。Code 全部以大写形式存储，查找前先归一化。
// Condition 是可选的 CEL 表达式（如 "subtotal >= 20.0"），为空表示无门槛。
type Rule struct {
	Code      string
	Kind      Kind
	Value     float64
	Condition string
}

// Apply 计算该规则对给定小计产生的折扣金额。
// 折扣永远不超过小计本身，总价不可能为负。
func (r *Rule) Apply(subtotal float64) float64 {
	var amount float64
	switch r.Kind {
	case KindPercentage:
		amount = subtotal * r.Value / 100
	case KindFixed:
		amount = r.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	return roundCents(amount)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Fact 是规则条件评估的输入事实。
type Fact struct {
	Subtotal   float64
	ItemCount  int
	CustomerID string
}

// RuleRepository 是折扣规则的只读查找接口。
// 规则表被刻意抽象成接口：静态内存表和数据库表可互换，
// 将来支持过期时间、使用次数限制时调用方不需要任何改动。
type RuleRepository interface {
	// FindByCode 按已归一化（大写）的 code 查找规则。
	FindByCode(ctx context.Context, code string) (*Rule, error)
}

// RuleEngine 评估规则的 Condition 表达式。
type RuleEngine interface {
	Evaluate(condition string, fact Fact) (bool, error)
}
