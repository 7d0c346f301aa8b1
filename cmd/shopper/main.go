// cmd/shopper/main.go
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"

	"flashmart/internal/client/cart"
	"flashmart/internal/client/storefront"
	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/tracing"
)

// shopper 是一个演示客户端：拉商品、装购物车、验折扣码、下单。
// 用来端到端冒烟整条下单链路。
func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "storefront base URL")
		token    = flag.String("token", "demo-user-token", "bearer token")
		code     = flag.String("discount", "FLASH10", "discount code to apply, empty to skip")
		cartPath = flag.String("cart", filepath.Join(os.TempDir(), "flashmart-cart.json"), "cart state file")
		jaeger   = flag.String("jaeger", "http://localhost:14268/api/traces", "jaeger collector endpoint")
	)
	flag.Parse()

	logger.Init("shopper")
	ctx := context.Background()

	tp, err := tracing.InitTracerProvider("shopper", *jaeger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	defer tp.Shutdown(ctx)

	client := storefront.NewClient(*baseURL, *token, otel.Tracer("shopper"))

	basket, err := cart.New(cart.NewFileStore(*cartPath))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open cart")
	}

	products, err := client.Products(ctx, "", "")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to list products")
	}
	if len(products) < 2 {
		logger.Fatal().Int("count", len(products)).Msg("not enough products to demo, run cmd/seed first")
	}

	for _, product := range products[:2] {
		item := cart.Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Emoji:     product.Emoji,
			Stock:     product.Stock,
		}
		if err := basket.Add(item, 1); err != nil {
			logger.Fatal().Err(err).Msg("failed to add item to cart")
		}
		logger.Info().Str("product", product.Name).Float64("price", product.Price).Msg("added to cart")
	}

	if *code != "" {
		discount, err := client.ValidateDiscount(ctx, *code)
		if err != nil {
			logger.Warn().Err(err).Str("code", *code).Msg("discount rejected, continuing without it")
		} else if err := basket.ApplyDiscount(discount); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply discount")
		}
	}

	totals := basket.Totals()
	logger.Info().
		Float64("subtotal", totals.Subtotal).
		Float64("discount", totals.Discount).
		Float64("total", totals.Total).
		Msg("cart totals")

	req := storefront.PlaceOrderRequest{
		Shipping: storefront.ShippingInfo{
			Name:    "Demo Shopper",
			Email:   "shopper@example.com",
			Address: "1 Demo Street",
			City:    "Demo City",
			ZipCode: "10001",
			Country: "US",
		},
		Subtotal: totals.Subtotal,
		Discount: totals.Discount,
		Total:    totals.Total,
	}
	for _, item := range basket.Items() {
		req.Items = append(req.Items, storefront.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if applied := basket.AppliedDiscount(); applied != nil {
		req.DiscountCode = applied.Code
	}

	order, err := client.PlaceOrder(ctx, req)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to place order")
	}

	if err := basket.Clear(); err != nil {
		logger.Warn().Err(err).Msg("failed to clear cart after checkout")
	}

	logger.Info().
		Str("orderNumber", order.OrderNumber).
		Float64("total", order.Total).
		Str("status", order.Status).
		Msg("order placed")
}
