// internal/service/catalog/interfaces/http_handler.go
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
	"flashmart/internal/service/catalog/application"
	"flashmart/internal/service/catalog/domain"
)

// CatalogHandler 封装了商品目录的 HTTP 处理器。
type CatalogHandler struct {
	service  *application.CatalogService
	verifier auth.Verifier
}

func NewCatalogHandler(service *application.CatalogService, verifier auth.Verifier) *CatalogHandler {
	return &CatalogHandler{service: service, verifier: verifier}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/categories", h.handleCategories)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("POST /api/products", h.requireAdmin(h.handleCreateProduct))
	mux.HandleFunc("PUT /api/products/{id}", h.requireAdmin(h.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", h.requireAdmin(h.handleDeleteProduct))
}

// requireAdmin 在进入业务逻辑前完成认证和管理员鉴权。
func (h *CatalogHandler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.verifier.Verify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !principal.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	products, err := h.service.ListProducts(ctx, r.URL.Query().Get("category"), r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	product, err := h.service.GetProduct(ctx, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *CatalogHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	categories, err := h.service.Categories(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.CreateProduct(ctx, req.toDomain(""))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *CatalogHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.UpdateProduct(ctx, req.toDomain(r.PathValue("id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *CatalogHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	if err := h.service.DeleteProduct(ctx, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// --- 请求/响应 DTO ---

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Emoji       string  `json:"emoji"`
}

func (req productRequest) toDomain(id string) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Price:       req.Price,
		Stock:       req.Stock,
		Emoji:       req.Emoji,
	}
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Emoji       string    `json:"emoji"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price,
		Stock:       p.Stock,
		Emoji:       p.Emoji,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// --- 辅助函数 ---

func extractTraceContext(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
