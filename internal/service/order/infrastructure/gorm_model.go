// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"flashmart/internal/service/order/domain"
)

// OrderLineModel 以 JSON 形式整体存进 items 列。
// 商品行在下单后不可变，没有单独建表的必要。
type OrderLineModel struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// OrderModel 是订单聚合的 GORM 持久化模型。
type OrderModel struct {
	ID             string           `gorm:"primaryKey;size:36"`
	OrderNumber    string           `gorm:"size:32;uniqueIndex;not null"`
	CustomerID     string           `gorm:"size:64;index;not null"`
	Items          []OrderLineModel `gorm:"serializer:json"`
	Subtotal       float64          `gorm:"not null"`
	DiscountCode   string           `gorm:"size:32"`
	DiscountAmount float64
	Total          float64 `gorm:"not null"`
	Status         string  `gorm:"size:16;index;not null"`
	PaymentStatus  string  `gorm:"size:16;not null"`
	ShipName       string  `gorm:"size:128"`
	ShipEmail      string  `gorm:"size:128"`
	ShipAddress    string  `gorm:"size:256"`
	ShipCity       string  `gorm:"size:64"`
	ShipZipCode    string  `gorm:"size:16"`
	ShipCountry    string  `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

func toOrderModel(o *domain.Order) *OrderModel {
	items := make([]OrderLineModel, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, OrderLineModel{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	m := &OrderModel{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Items:         items,
		Subtotal:      o.Subtotal,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ShipName:      o.Shipping.Name,
		ShipEmail:     o.Shipping.Email,
		ShipAddress:   o.Shipping.Address,
		ShipCity:      o.Shipping.City,
		ShipZipCode:   o.Shipping.ZipCode,
		ShipCountry:   o.Shipping.Country,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.Discount != nil {
		m.DiscountCode = o.Discount.Code
		m.DiscountAmount = o.Discount.Amount
	}
	return m
}

func toDomainOrder(m *OrderModel) *domain.Order {
	items := make([]domain.OrderLine, 0, len(m.Items))
	for _, line := range m.Items {
		items = append(items, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	o := &domain.Order{
		ID:            m.ID,
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		Items:         items,
		Subtotal:      m.Subtotal,
		Total:         m.Total,
		Status:        domain.Status(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		Shipping: domain.ShippingAddress{
			Name:    m.ShipName,
			Email:   m.ShipEmail,
			Address: m.ShipAddress,
			City:    m.ShipCity,
			ZipCode: m.ShipZipCode,
			Country: m.ShipCountry,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DiscountCode != "" {
		o.Discount = &domain.AppliedDiscount{Code: m.DiscountCode, Amount: m.DiscountAmount}
	}
	return o
}
