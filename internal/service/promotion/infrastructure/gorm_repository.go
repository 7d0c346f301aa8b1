// internal/service/promotion/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"flashmart/internal/service/promotion/domain"
)

// DiscountRuleModel 对应数据库中的 discount_rule 表。
type DiscountRuleModel struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;size:32"`
	Kind      string `gorm:"size:16"`
	Value     float64 `gorm:"type:decimal(10,2)"`
	Condition string  `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (DiscountRuleModel) TableName() string {
	return "discount_rule"
}

// GormRuleRepository 是 RuleRepository 的 GORM 实现。
type GormRuleRepository struct {
	db *gorm.DB
}

func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

func (r *GormRuleRepository) FindByCode(ctx context.Context, code string) (*domain.Rule, error) {
	var model DiscountRuleModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, errors.Wrap(err, "find discount rule")
	}
	return &domain.Rule{
		Code:      model.Code,
		Kind:      domain.Kind(model.Kind),
		Value:     model.Value,
		Condition: model.Condition,
	}, nil
}

// Save 新增或按 code 更新一条规则，供 cmd/seed 使用。
func (r *GormRuleRepository) Save(ctx context.Context, rule *domain.Rule) error {
	model := DiscountRuleModel{
		Code:      rule.Code,
		Kind:      string(rule.Kind),
		Value:     rule.Value,
		Condition: rule.Condition,
	}
	err := r.db.WithContext(ctx).
		Where("code = ?", rule.Code).
		Assign(map[string]interface{}{
			"kind":      model.Kind,
			"value":     model.Value,
			"condition": model.Condition,
		}).
		FirstOrCreate(&model).Error
	return errors.Wrap(err, "save discount rule")
}
