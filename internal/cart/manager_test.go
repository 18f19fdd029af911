package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string][]LineItem
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]LineItem)}
}

func (f *fakeStore) Load(ctx context.Context, owner string) ([]LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	items, ok := f.records[owner]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneItems(items), nil
}

func (f *fakeStore) Save(ctx context.Context, owner string, items []LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[owner] = cloneItems(items)
	return nil
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	manager, err := NewManager(store, nil)
	require.NoError(t, err)
	return manager
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func keyboard() LineItem {
	return LineItem{
		ProductID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Name:      "Mechanical Keyboard",
		UnitPrice: price("99.99"),
		Quantity:  1,
	}
}

func mouse() LineItem {
	return LineItem{
		ProductID: uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		Name:      "Wireless Mouse",
		UnitPrice: price("59.99"),
		Quantity:  1,
	}
}

func TestAddItemMergesDuplicates(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	item := keyboard()
	item.Quantity = 2
	items := manager.AddItem(ctx, owner, item)

	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
}

func TestAddItemAppendsDistinctProducts(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	items := manager.AddItem(ctx, owner, mouse())

	require.Len(t, items, 2)
	require.Equal(t, "Mechanical Keyboard", items[0].Name)
	require.Equal(t, "Wireless Mouse", items[1].Name)
}

func TestAddItemClampsQuantityToOne(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	item := keyboard()
	item.Quantity = -5

	items := manager.AddItem(context.Background(), "device-a", item)
	require.Equal(t, 1, items[0].Quantity)
}

func TestRemoveItemIsNoOpForAbsentProduct(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(t, store)
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	savesBefore := store.saves

	items := manager.RemoveItem(ctx, owner, uuid.New())
	require.Len(t, items, 1)
	require.Equal(t, savesBefore, store.saves)
}

func TestRemoveItemDeletesLine(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	manager.AddItem(ctx, owner, mouse())

	items := manager.RemoveItem(ctx, owner, keyboard().ProductID)
	require.Len(t, items, 1)
	require.Equal(t, mouse().ProductID, items[0].ProductID)
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())

	items := manager.UpdateQuantity(ctx, owner, keyboard().ProductID, 0)
	require.Equal(t, 1, items[0].Quantity)

	items = manager.UpdateQuantity(ctx, owner, keyboard().ProductID, 7)
	require.Equal(t, 7, items[0].Quantity)
}

func TestUpdateQuantityAbsentProductIsNoOp(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(t, store)
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	savesBefore := store.saves

	items := manager.UpdateQuantity(ctx, owner, uuid.New(), 5)
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Quantity)
	require.Equal(t, savesBefore, store.saves)
}

func TestSubtotalRoundsToTwoPlaces(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	item := mouse()
	item.Quantity = 2
	manager.AddItem(ctx, owner, item)

	subtotal := manager.Subtotal(ctx, owner)
	require.Equal(t, "219.97", subtotal.StringFixed(2))
}

func TestSubtotalEmptyCartIsZero(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	subtotal := manager.Subtotal(context.Background(), "device-a")
	require.True(t, subtotal.IsZero())
}

func TestClearEmptiesCartAndPersists(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(t, store)
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())
	manager.Clear(ctx, owner)

	require.Empty(t, manager.Get(ctx, owner))
	require.Empty(t, store.records[owner])
}

func TestGetReturnsIndependentSnapshot(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	manager.AddItem(ctx, owner, keyboard())

	snapshot := manager.Get(ctx, owner)
	snapshot[0].Quantity = 99

	require.Equal(t, 1, manager.Get(ctx, owner)[0].Quantity)
}

func TestRestoreFromPersistedRecord(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	owner := "device-a"

	first := newTestManager(t, store)
	first.AddItem(ctx, owner, keyboard())
	first.AddItem(ctx, owner, mouse())

	// a fresh manager sees the persisted record
	second := newTestManager(t, store)
	items := second.Get(ctx, owner)
	require.Len(t, items, 2)
	require.Equal(t, "159.98", second.Subtotal(ctx, owner).StringFixed(2))
}

func TestCorruptRecordStartsEmptyCart(t *testing.T) {
	store := newFakeStore()
	store.loadErr = ErrCorruptRecord
	manager := newTestManager(t, store)

	require.Empty(t, manager.Get(context.Background(), "device-a"))
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("redis down")
	manager := newTestManager(t, store)
	ctx := context.Background()
	owner := "device-a"

	items := manager.AddItem(ctx, owner, keyboard())
	require.Len(t, items, 1)
	require.Len(t, manager.Get(ctx, owner), 1)

	// store recovers, next mutation reconverges
	store.saveErr = nil
	manager.AddItem(ctx, owner, mouse())
	require.Len(t, store.records[owner], 2)
}

func TestConcurrentAddsMergeSafely(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	ctx := context.Background()
	owner := "device-a"

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.AddItem(ctx, owner, keyboard())
		}()
	}
	wg.Wait()

	items := manager.Get(ctx, owner)
	require.Len(t, items, 1)
	require.Equal(t, 50, items[0].Quantity)
}
