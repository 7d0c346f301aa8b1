// internal/service/inventory/application/manager.go
package application

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"flashmart/internal/pkg/logger"
	"flashmart/internal/service/inventory/domain"
)

var (
	reservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashmart_stock_reservations_total",
		Help: "Stock reservation attempts by outcome.",
	}, []string{"outcome"})
)

// Manager 是库存预占管理器，整个系统中唯一允许扣减库存的组件。
//
// 一次 Reserve 调用是一个逻辑事务：批次内所有行要么全部扣减成功，
// 要么一个都不扣。实现上按商品 ID 排序后逐个加锁（固定顺序避免死锁），
// 先整体检查再逐个扣减；扣减途中任何一行失败，已扣减的行立即恢复。
type Manager struct {
	store     domain.StockStore
	locker    domain.Locker
	publisher domain.StockPublisher
	tracer    trace.Tracer
}

func NewManager(store domain.StockStore, locker domain.Locker, publisher domain.StockPublisher, tracer trace.Tracer) *Manager {
	return &Manager{store: store, locker: locker, publisher: publisher, tracer: tracer}
}

// Reserve 为一个批次预占库存，成功时返回带冻结单价的预占行。
// 失败返回批次中第一个出问题的商品，且保证没有任何残留扣减。
func (m *Manager) Reserve(ctx context.Context, lines []domain.Line) ([]domain.ReservedLine, error) {
	ctx, span := m.tracer.Start(ctx, "inventory.Reserve")
	defer span.End()

	merged, err := mergeLines(lines)
	if err != nil {
		span.RecordError(err)
		reservationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	span.SetAttributes(attribute.Int("reservation.lines", len(merged)))

	release, err := m.acquireLocks(ctx, merged)
	if err != nil {
		span.RecordError(err)
		reservationsTotal.WithLabelValues("lock_failed").Inc()
		return nil, err
	}
	defer release()

	// 第一阶段：持锁状态下检查整个批次，任何一行不满足就整体失败。
	infos := make([]*domain.ProductInfo, len(merged))
	for i, line := range merged {
		info, err := m.store.ProductInfo(ctx, line.ProductID)
		if err != nil {
			span.RecordError(err)
			reservationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
			return nil, err
		}
		if info.Stock < line.Quantity {
			err := &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: info.Stock,
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "insufficient stock")
			reservationsTotal.WithLabelValues("insufficient").Inc()
			return nil, err
		}
		infos[i] = info
	}

	// 第二阶段：逐行原子扣减。扣减本身是条件更新，即使有绕过锁的
	// 外部写入者，库存也不会被扣成负数；此时回滚本批次已扣减的行。
	reserved := make([]domain.ReservedLine, 0, len(merged))
	for i, line := range merged {
		remaining, err := m.store.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			m.rollback(ctx, reserved)
			span.RecordError(err)
			span.SetStatus(codes.Error, "decrement failed")
			reservationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
			return nil, err
		}
		reserved = append(reserved, domain.ReservedLine{
			ProductID: line.ProductID,
			Name:      infos[i].Name,
			Quantity:  line.Quantity,
			UnitPrice: infos[i].Price,
		})
		if m.publisher != nil {
			m.publisher.PublishStockChange(line.ProductID, remaining)
		}
	}

	span.AddEvent("all lines reserved")
	reservationsTotal.WithLabelValues("success").Inc()
	return reserved, nil
}

// Release 是 Reserve 的补偿操作，把整批预占的数量加回库存。
// 行与行之间没有依赖，恢复是并发执行的；单行失败不阻止其余行恢复，
// 返回第一个失败。
func (m *Manager) Release(ctx context.Context, lines []domain.ReservedLine) error {
	ctx, span := m.tracer.Start(ctx, "inventory.Release")
	defer span.End()

	var g errgroup.Group
	for _, line := range lines {
		g.Go(func() error {
			remaining, err := m.store.RestoreStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				// 补偿失败意味着库存永久泄漏，必须显式暴露出来
				logger.Ctx(ctx).Error().Err(err).
					Str("product.id", line.ProductID).
					Int("quantity", line.Quantity).
					Msg("stock restore failed, manual intervention required")
				span.RecordError(err)
				return err
			}
			if m.publisher != nil {
				m.publisher.PublishStockChange(line.ProductID, remaining)
			}
			return nil
		})
	}
	return g.Wait()
}

// rollback 恢复本批次中已经扣减的行。
func (m *Manager) rollback(ctx context.Context, reserved []domain.ReservedLine) {
	for _, line := range reserved {
		remaining, err := m.store.RestoreStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("product.id", line.ProductID).
				Msg("rollback of partial reservation failed")
			continue
		}
		if m.publisher != nil {
			m.publisher.PublishStockChange(line.ProductID, remaining)
		}
	}
}

// outcomeLabel 按错误类型归类指标，存储故障不会被记成缺货。
func outcomeLabel(err error) string {
	var notFound *domain.ProductNotFoundError
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return "insufficient"
	}
	return "store_error"
}

// acquireLocks 按商品 ID 升序逐个加锁，返回一次性的整体释放函数。
func (m *Manager) acquireLocks(ctx context.Context, lines []domain.Line) (func(), error) {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	sort.Strings(ids)

	releases := make([]func(), 0, len(ids))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, id := range ids {
		release, err := m.locker.Acquire(ctx, id)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// mergeLines 合并同一商品的重复行并校验数量，保持首次出现的顺序。
func mergeLines(lines []domain.Line) ([]domain.Line, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyReservation
	}
	index := make(map[string]int, len(lines))
	merged := make([]domain.Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
