// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"flashmart/internal/service/order/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 MySQL 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(toOrderModel(order)).Error; err != nil {
		var mysqlErr *mysqldrv.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.ErrDuplicateOrderNumber
		}
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order by id")
	}
	return toDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find orders by customer")
	}
	return toDomainOrders(models), nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find all orders")
	}
	return toDomainOrders(models), nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, payment domain.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(status),
			"payment_status": string(payment),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update order status")
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func toDomainOrders(models []OrderModel) []*domain.Order {
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toDomainOrder(&models[i]))
	}
	return orders
}
