// cmd/storefront/main.go
package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"flashmart/internal/pkg/auth"
	"flashmart/internal/pkg/bootstrap"
	"flashmart/internal/pkg/config"
	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/mq"
	redispkg "flashmart/internal/pkg/redis"
	"flashmart/internal/pkg/zookeeper"
	"flashmart/internal/push"
	catalogapp "flashmart/internal/service/catalog/application"
	catalogdomain "flashmart/internal/service/catalog/domain"
	cataloginfra "flashmart/internal/service/catalog/infrastructure"
	cataloghttp "flashmart/internal/service/catalog/interfaces"
	inventoryapp "flashmart/internal/service/inventory/application"
	inventorydomain "flashmart/internal/service/inventory/domain"
	inventoryinfra "flashmart/internal/service/inventory/infrastructure"
	orderapp "flashmart/internal/service/order/application"
	orderdomain "flashmart/internal/service/order/domain"
	orderinfra "flashmart/internal/service/order/infrastructure"
	orderadapter "flashmart/internal/service/order/infrastructure/adapter"
	orderhttp "flashmart/internal/service/order/interfaces"
	promotionapp "flashmart/internal/service/promotion/application"
	promotiondomain "flashmart/internal/service/promotion/domain"
	promotioninfra "flashmart/internal/service/promotion/infrastructure"
	promotionrule "flashmart/internal/service/promotion/infrastructure/rule"
	promotionhttp "flashmart/internal/service/promotion/interfaces"
)

const serviceName = "storefront"

// main 是应用的组装根 (Composition Root)：
// 创建并组装所有依赖项，然后交给 bootstrap 启动。
func main() {
	cfg := bootstrap.Init(serviceName)
	tracer := otel.Tracer(serviceName)

	var closers []func(ctx context.Context)

	// --- 商品目录存储 ---
	var db *gorm.DB
	var productRepo catalogdomain.ProductRepository
	switch cfg.Inventory.Backend {
	case "mysql", "redis":
		gormDB, err := gorm.Open(gormmysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to mysql")
		}
		db = gormDB
		productRepo = cataloginfra.NewGormProductRepository(db)
	default:
		memRepo := cataloginfra.NewMemoryProductRepository()
		for _, product := range cataloginfra.DemoProducts() {
			if err := memRepo.Create(context.Background(), product); err != nil {
				logger.Fatal().Err(err).Msg("failed to seed demo products")
			}
		}
		productRepo = memRepo
	}

	// --- 库存推送 ---
	hub := push.NewHub()
	go hub.Run()
	closers = append(closers, func(context.Context) { hub.Close() })

	// --- 库存预占 ---
	var stockStore inventorydomain.StockStore = inventoryinfra.NewCatalogStockStore(productRepo)
	if cfg.Inventory.Backend == "redis" {
		redisClient, err := redispkg.NewClient(cfg.Redis.Addrs)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		closers = append(closers, func(context.Context) { redisClient.Close() })

		redisStore, err := inventoryinfra.NewRedisStockStore(redisClient, productRepo)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize redis stock store")
		}
		if err := redisStore.SyncFromCatalog(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to sync stock into redis")
		}
		stockStore = redisStore
	}

	var locker inventorydomain.Locker = inventoryinfra.NewKeyedMutexLocker()
	if cfg.Inventory.Locker == "zookeeper" {
		zkConn, err := zookeeper.Connect(config.SplitAddrs(cfg.Zookeeper.Servers), zookeeper.DefaultSessionTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to zookeeper")
		}
		closers = append(closers, func(context.Context) { zkConn.Close() })
		locker = inventoryinfra.NewZookeeperLocker(zkConn)
	}

	inventoryManager := inventoryapp.NewManager(stockStore, locker, hub, tracer)

	// --- 商品目录服务 ---
	catalogService := catalogapp.NewCatalogService(productRepo, hub, tracer)

	// --- 促销服务 ---
	engine, err := promotionrule.NewCELRuleEngine()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize rule engine")
	}
	var ruleRepo promotiondomain.RuleRepository
	if db != nil {
		ruleRepo = promotioninfra.NewGormRuleRepository(db)
	} else {
		ruleRepo = promotioninfra.NewStaticRuleRepository(promotioninfra.DefaultRules())
	}
	promotionService := promotionapp.NewPromotionService(ruleRepo, engine, tracer)

	// --- 订单服务 ---
	var orderRepo orderdomain.OrderRepository
	if db != nil {
		orderRepo = orderinfra.NewGormOrderRepository(db)
	} else {
		orderRepo = orderinfra.NewMemoryOrderRepository()
	}

	kafkaWriter := mq.NewKafkaWriter(config.SplitAddrs(cfg.Kafka.Brokers), cfg.Kafka.OrderEventsTopic)
	notifier := orderadapter.NewNotificationKafkaAdapter(kafkaWriter)
	closers = append(closers, func(context.Context) { notifier.Close() })

	orderService := orderapp.NewOrderApplicationService(
		orderRepo,
		orderadapter.NewInventoryAdapter(inventoryManager),
		orderadapter.NewDiscountAdapter(promotionService),
		notifier,
		tracer,
	)

	verifier := auth.NewStaticTokenVerifier(cfg.Auth.Tokens)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cataloghttp.NewCatalogHandler(catalogService, verifier).RegisterRoutes(appCtx.Mux)
			promotionhttp.NewPromotionHandler(promotionService).RegisterRoutes(appCtx.Mux)
			orderhttp.NewOrderHandler(orderService, verifier).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("GET /ws/stock", func(w http.ResponseWriter, r *http.Request) {
				push.ServeWS(hub, w, r)
			})
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())
			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		},
		OnShutdown: func(ctx context.Context) {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i](ctx)
			}
		},
	})
}
