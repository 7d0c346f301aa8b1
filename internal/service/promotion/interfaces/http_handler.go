// internal/service/promotion/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"flashmart/internal/service/promotion/application"
	"flashmart/internal/service/promotion/domain"
)

// PromotionHandler 封装了折扣码服务的 HTTP 处理器。
type PromotionHandler struct {
	service *application.PromotionService
}

func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
// 路径沿用原有客户端依赖的 /api/orders/validate-discount。
func (h *PromotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders/validate-discount", h.handleValidateDiscount)
}

func (h *PromotionHandler) handleValidateDiscount(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCode):
			writeError(w, http.StatusBadRequest, "Please provide a discount code")
		case errors.Is(err, domain.ErrCodeNotFound):
			writeError(w, http.StatusNotFound, "Invalid discount code")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":  rule.Code,
		"type":  string(rule.Kind),
		"value": rule.Value,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
