// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"flashmart/internal/pkg/auth"
	"flashmart/internal/service/order/application"
	"flashmart/internal/service/order/domain"
	"flashmart/internal/service/order/port"
)

// OrderHandler 封装了订单服务的 HTTP 处理器。
// 除折扣码校验外，所有路由都要求携带有效的 Bearer token。
type OrderHandler struct {
	service  *application.OrderApplicationService
	verifier auth.Verifier
}

func NewOrderHandler(service *application.OrderApplicationService, verifier auth.Verifier) *OrderHandler {
	return &OrderHandler{service: service, verifier: verifier}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.requireAuth(h.handlePlaceOrder))
	mux.HandleFunc("GET /api/orders", h.requireAuth(h.handleListAllOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.requireAuth(h.handleGetOrder))
	mux.HandleFunc("GET /api/orders/user/{userId}", h.requireAuth(h.handleListCustomerOrders))
	mux.HandleFunc("PUT /api/orders/{id}/status", h.requireAuth(h.handleUpdateStatus))
}

// requireAuth 在进入业务逻辑前完成认证，把身份放进请求上下文。
// 资源级的归属检查在应用层做。
func (h *OrderHandler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.verifier.Verify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)
	principal, _ := auth.FromContext(r.Context())

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}

	order, err := h.service.PlaceOrder(ctx, principal, req.toApplication())
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)
	principal, _ := auth.FromContext(r.Context())

	order, err := h.service.GetOrder(ctx, principal, r.PathValue("id"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)
	principal, _ := auth.FromContext(r.Context())

	orders, err := h.service.ListAllOrders(ctx, principal)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) handleListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)
	principal, _ := auth.FromContext(r.Context())

	orders, err := h.service.ListCustomerOrders(ctx, principal, r.PathValue("userId"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)
	principal, _ := auth.FromContext(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(ctx, principal, r.PathValue("id"), status)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// --- 请求/响应 DTO ---

type placeOrderRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	DiscountCode string `json:"discountCode"`
	Shipping     struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
		City    string `json:"city"`
		ZipCode string `json:"zipCode"`
		Country string `json:"country"`
	} `json:"shipping"`

	// 客户端本地算出的金额，仅作展示参考，服务端一律重算
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

func (r placeOrderRequest) toApplication() *application.PlaceOrderRequest {
	req := &application.PlaceOrderRequest{
		DiscountCode: r.DiscountCode,
		Shipping: domain.ShippingAddress{
			Name:    r.Shipping.Name,
			Email:   r.Shipping.Email,
			Address: r.Shipping.Address,
			City:    r.Shipping.City,
			ZipCode: r.Shipping.ZipCode,
			Country: r.Shipping.Country,
		},
	}
	for _, item := range r.Items {
		req.Items = append(req.Items, application.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return req
}

type orderLineResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"orderNumber"`
	CustomerID    string              `json:"customerId"`
	Items         []orderLineResponse `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	DiscountCode  string              `json:"discountCode,omitempty"`
	Discount      float64             `json:"discount"`
	Total         float64             `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	Shipping      struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
		City    string `json:"city"`
		ZipCode string `json:"zipCode"`
		Country string `json:"country"`
	} `json:"shipping"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Subtotal:      o.Subtotal,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	resp.Shipping.Name = o.Shipping.Name
	resp.Shipping.Email = o.Shipping.Email
	resp.Shipping.Address = o.Shipping.Address
	resp.Shipping.City = o.Shipping.City
	resp.Shipping.ZipCode = o.Shipping.ZipCode
	resp.Shipping.Country = o.Shipping.Country
	if o.Discount != nil {
		resp.DiscountCode = o.Discount.Code
		resp.Discount = o.Discount.Amount
	}
	for _, line := range o.Items {
		resp.Items = append(resp.Items, orderLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}
	return resp
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// --- 错误映射 ---

func writeOrderError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	var transition *domain.InvalidTransitionError
	var unknownProduct *port.UnknownProductError
	var stockConflict *port.StockConflictError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &transition):
		writeError(w, http.StatusBadRequest, transition.Error())
	case errors.Is(err, port.ErrDiscountRejected):
		writeError(w, http.StatusBadRequest, "Invalid discount code")
	case errors.As(err, &unknownProduct):
		writeError(w, http.StatusNotFound, unknownProduct.Error())
	case errors.As(err, &stockConflict):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"message":   stockConflict.Error(),
			"productId": stockConflict.ProductID,
			"requested": stockConflict.Requested,
			"available": stockConflict.Available,
		})
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "Not authorized")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- 辅助函数 ---

func extractTraceContext(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
