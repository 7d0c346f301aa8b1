// internal/client/cart/cart.go
package cart

import (
	"math"
	"sync"

	"github.com/pkg/errors"
)

// ErrItemNotFound 表示购物车里没有该商品。
var ErrItemNotFound = errors.New("item not in cart")

// Totals 是购物车当前的金额汇总，每次调用都重新计算。
type Totals struct {
	Subtotal  float64
	Discount  float64
	Total     float64
	ItemCount int
}

// Cart 是客户端本地购物车。所有变更方法在持久化成功后才生效，
// 数量始终被钳制在加入时看到的库存上限内。
type Cart struct {
	mu    sync.Mutex
	store Store
	state State
}

// New 从 Store 恢复购物车状态。
func New(store Store) (*Cart, error) {
	state, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load cart state")
	}
	return &Cart{store: store, state: state}, nil
}

// Add 把商品加入购物车。已存在时累加数量，数量超过库存则钳到库存。
func (c *Cart) Add(product Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cloneState()
	merged := false
	for i := range next.Items {
		if next.Items[i].ProductID == product.ProductID {
			next.Items[i].Quantity = clamp(next.Items[i].Quantity+quantity, product.Stock)
			next.Items[i].Price = product.Price
			next.Items[i].Stock = product.Stock
			merged = true
			break
		}
	}
	if !merged {
		product.Quantity = clamp(quantity, product.Stock)
		next.Items = append(next.Items, product)
	}

	return c.commit(next)
}

// UpdateQuantity 修改某行的数量。数量小于等于 0 时移除该行。
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cloneState()
	for i := range next.Items {
		if next.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		} else {
			next.Items[i].Quantity = clamp(quantity, next.Items[i].Stock)
		}
		return c.commit(next)
	}
	return ErrItemNotFound
}

// Remove 从购物车移除某行商品。
func (c *Cart) Remove(productID string) error {
	return c.UpdateQuantity(productID, 0)
}

// Clear 清空购物车，同时丢弃已套用的折扣码。
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(State{})
}

// ApplyDiscount 记录校验通过的折扣码。
func (c *Cart) ApplyDiscount(discount Discount) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cloneState()
	next.Discount = &discount
	return c.commit(next)
}

// RemoveDiscount 移除已套用的折扣码。
func (c *Cart) RemoveDiscount() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cloneState()
	next.Discount = nil
	return c.commit(next)
}

// Items 返回购物车内容的副本。
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Item(nil), c.state.Items...)
}

// AppliedDiscount 返回当前折扣码，没有时返回 nil。
func (c *Cart) AppliedDiscount() *Discount {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Discount == nil {
		return nil
	}
	clone := *c.state.Discount
	return &clone
}

// Totals 重算金额汇总。折扣金额不会超过小计。
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var totals Totals
	for _, item := range c.state.Items {
		totals.Subtotal += item.Price * float64(item.Quantity)
		totals.ItemCount += item.Quantity
	}
	totals.Subtotal = roundCents(totals.Subtotal)

	if c.state.Discount != nil {
		switch c.state.Discount.Kind {
		case "percentage":
			totals.Discount = totals.Subtotal * c.state.Discount.Value / 100
		case "fixed":
			totals.Discount = c.state.Discount.Value
		}
		totals.Discount = roundCents(math.Min(totals.Discount, totals.Subtotal))
	}

	totals.Total = roundCents(totals.Subtotal - totals.Discount)
	return totals
}

// commit 先持久化再应用新状态，持久化失败时购物车保持原样。
func (c *Cart) commit(next State) error {
	if err := c.store.Save(next); err != nil {
		return errors.Wrap(err, "persist cart state")
	}
	c.state = next
	return nil
}

func (c *Cart) cloneState() State {
	next := State{Items: append([]Item(nil), c.state.Items...)}
	if c.state.Discount != nil {
		clone := *c.state.Discount
		next.Discount = &clone
	}
	return next
}

func clamp(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		return stock
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
