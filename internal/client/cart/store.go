// internal/client/cart/store.go
package cart

// Item 是购物车里的一行商品，价格和库存来自加入时的商品快照。
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Emoji     string  `json:"emoji,omitempty"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// Discount 是 validate-discount 接口返回的折扣规则快照。
type Discount struct {
	Code  string  `json:"code"`
	Kind  string  `json:"type"` // percentage | fixed
	Value float64 `json:"value"`
}

// State 是购物车的完整可持久化状态。
type State struct {
	Items    []Item    `json:"items"`
	Discount *Discount `json:"discount,omitempty"`
}

// Store 抽象了购物车状态的持久化。每次变更后整体保存。
type Store interface {
	Load() (State, error)
	Save(state State) error
}

// NopStore 不做任何持久化，用于测试和一次性脚本。
type NopStore struct{}

func (NopStore) Load() (State, error) { return State{}, nil }
func (NopStore) Save(State) error     { return nil }
