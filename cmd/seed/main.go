// cmd/seed/main.go
package main

import (
	"context"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"flashmart/internal/pkg/bootstrap"
	"flashmart/internal/pkg/logger"
	cataloginfra "flashmart/internal/service/catalog/infrastructure"
	orderinfra "flashmart/internal/service/order/infrastructure"
	promotioninfra "flashmart/internal/service/promotion/infrastructure"
)

// seed 建表并灌入演示商品和默认折扣规则，可以重复执行。
func main() {
	cfg := bootstrap.Init("seed")
	ctx := context.Background()

	db, err := gorm.Open(gormmysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	if err := cataloginfra.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate product table")
	}
	if err := db.AutoMigrate(&promotioninfra.DiscountRuleModel{}, &orderinfra.OrderModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate order tables")
	}

	if err := cataloginfra.SeedDemoProducts(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed products")
	}

	rules := promotioninfra.NewGormRuleRepository(db)
	for _, rule := range promotioninfra.DefaultRules() {
		if err := rules.Save(ctx, rule); err != nil {
			logger.Fatal().Err(err).Str("code", rule.Code).Msg("failed to seed discount rule")
		}
	}

	logger.Info().Msg("database seeded")
}
