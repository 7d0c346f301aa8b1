// internal/client/cart/cart_test.go
package cart

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earbuds() Item {
	return Item{ProductID: "p1", Name: "Earbuds", Price: 129.99, Stock: 5}
}

func mat() Item {
	return Item{ProductID: "p2", Name: "Yoga Mat", Price: 49.99, Stock: 89}
}

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	c, err := New(NopStore{})
	require.NoError(t, err)
	return c
}

func TestAddMergesAndClampsToStock(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(earbuds(), 3))
	require.NoError(t, c.Add(earbuds(), 4))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity, "quantity is clamped to the stock seen at add time")
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(earbuds(), 2))
	require.NoError(t, c.Add(mat(), 1))

	require.NoError(t, c.UpdateQuantity("p1", 0))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	assert.ErrorIs(t, c.UpdateQuantity("p1", 2), ErrItemNotFound)
}

func TestTotalsWithPercentageDiscount(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "A", Price: 15.00, Stock: 10}, 3))
	require.NoError(t, c.ApplyDiscount(Discount{Code: "FLASH10", Kind: "percentage", Value: 10}))

	totals := c.Totals()
	assert.Equal(t, 45.00, totals.Subtotal)
	assert.Equal(t, 4.50, totals.Discount)
	assert.Equal(t, 40.50, totals.Total)
	assert.Equal(t, 3, totals.ItemCount)
}

func TestTotalsFixedDiscountClamped(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "A", Price: 30.00, Stock: 10}, 1))
	require.NoError(t, c.ApplyDiscount(Discount{Code: "SAVE50", Kind: "fixed", Value: 50}))

	totals := c.Totals()
	assert.Equal(t, 30.00, totals.Discount)
	assert.Equal(t, 0.00, totals.Total)
}

func TestClearDropsItemsAndDiscount(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(earbuds(), 1))
	require.NoError(t, c.ApplyDiscount(Discount{Code: "FLASH10", Kind: "percentage", Value: 10}))

	require.NoError(t, c.Clear())
	assert.Empty(t, c.Items())
	assert.Nil(t, c.AppliedDiscount())
	assert.Equal(t, Totals{}, c.Totals())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	c, err := New(NewFileStore(path))
	require.NoError(t, err)
	require.NoError(t, c.Add(earbuds(), 2))
	require.NoError(t, c.ApplyDiscount(Discount{Code: "FLASH10", Kind: "percentage", Value: 10}))

	// 重新打开同一个文件，状态应完整恢复
	reopened, err := New(NewFileStore(path))
	require.NoError(t, err)
	items := reopened.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	require.NotNil(t, reopened.AppliedDiscount())
	assert.Equal(t, "FLASH10", reopened.AppliedDiscount().Code)
}

func TestFileStoreMissingFileIsEmptyCart(t *testing.T) {
	c, err := New(NewFileStore(filepath.Join(t.TempDir(), "missing.json")))
	require.NoError(t, err)
	assert.Empty(t, c.Items())
}

// failStore 持久化总是失败。
type failStore struct{}

func (failStore) Load() (State, error) { return State{}, nil }
func (failStore) Save(State) error     { return errors.New("disk full") }

func TestMutationRollsBackOnPersistFailure(t *testing.T) {
	c, err := New(failStore{})
	require.NoError(t, err)

	require.Error(t, c.Add(earbuds(), 1))
	assert.Empty(t, c.Items(), "in-memory state must not change when persistence fails")
}
