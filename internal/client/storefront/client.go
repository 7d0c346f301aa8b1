// internal/client/storefront/client.go
package storefront

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"flashmart/internal/client/cart"
	"flashmart/internal/pkg/httpclient"
)

// Client 是访问店面 API 的客户端，所有调用都带追踪和 Bearer 认证。
type Client struct {
	baseURL string
	token   string
	http    *httpclient.Client
}

func NewClient(baseURL, token string, tracer trace.Tracer) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    httpclient.NewClient(tracer),
	}
}

// Product 是商品目录接口返回的一件商品。
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Emoji       string  `json:"emoji"`
}

// Products 拉取商品列表，category 和 search 为空时返回全量。
func (c *Client) Products(ctx context.Context, category, search string) ([]Product, error) {
	url := c.baseURL + "/api/products"
	sep := "?"
	if category != "" {
		url += sep + "category=" + category
		sep = "&"
	}
	if search != "" {
		url += sep + "search=" + search
	}

	var products []Product
	if err := c.http.GetJSON(ctx, url, c.headers(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ValidateDiscount 校验折扣码，返回可直接套到购物车上的折扣规则。
func (c *Client) ValidateDiscount(ctx context.Context, code string) (cart.Discount, error) {
	var discount cart.Discount
	err := c.http.PostJSON(ctx, c.baseURL+"/api/orders/validate-discount", c.headers(),
		map[string]string{"code": code}, &discount)
	return discount, err
}

// OrderItem 是下单请求里的一行。
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ShippingInfo 是下单请求里的收货信息。
type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// PlaceOrderRequest 是下单请求体。金额字段仅作展示参考，
// 服务端会按冻结价格重算。
type PlaceOrderRequest struct {
	Items        []OrderItem  `json:"items"`
	DiscountCode string       `json:"discountCode,omitempty"`
	Shipping     ShippingInfo `json:"shipping"`
	Subtotal     float64      `json:"subtotal"`
	Discount     float64      `json:"discount"`
	Total        float64      `json:"total"`
}

// Order 是服务端返回的订单。
type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Subtotal    float64   `json:"subtotal"`
	Discount    float64   `json:"discount"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaceOrder 提交订单。
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error) {
	var order Order
	err := c.http.PostJSON(ctx, c.baseURL+"/api/orders", c.headers(), req, &order)
	return order, err
}

// Orders 拉取当前用户的历史订单。
func (c *Client) Orders(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	err := c.http.GetJSON(ctx, c.baseURL+"/api/orders/user/"+userID, c.headers(), &orders)
	return orders, err
}

func (c *Client) headers() http.Header {
	headers := http.Header{}
	if c.token != "" {
		headers.Set("Authorization", "Bearer "+c.token)
	}
	return headers
}
