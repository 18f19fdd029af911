package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Manager holds the authoritative in-memory cart state for every owner and
// mirrors each mutation to the backing store. Reads never touch the store
// after the first load; a failed write leaves the in-memory state intact so
// the session keeps working and the next successful write reconverges.
type Manager struct {
	mu       sync.Mutex
	carts    map[string][]LineItem
	restored map[string]bool
	store    Store
	logg     *logger.Logger
}

// NewManager constructs a cart manager backed by the provided store.
func NewManager(store Store, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	return &Manager{
		carts:    make(map[string][]LineItem),
		restored: make(map[string]bool),
		store:    store,
		logg:     logg,
	}, nil
}

// AddItem merges the item into an existing line with the same product or
// appends a new line. Quantities below 1 are treated as 1.
func (m *Manager) AddItem(ctx context.Context, owner string, item LineItem) []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items := m.carts[owner]
	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	m.carts[owner] = items

	m.persist(ctx, owner)
	return cloneItems(items)
}

// RemoveItem deletes the line for the product. Removing an absent product is
// a no-op.
func (m *Manager) RemoveItem(ctx context.Context, owner string, productID uuid.UUID) []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	items := m.carts[owner]
	filtered := items[:0]
	removed := false
	for _, li := range items {
		if li.ProductID == productID {
			removed = true
			continue
		}
		filtered = append(filtered, li)
	}
	if !removed {
		return cloneItems(items)
	}
	m.carts[owner] = filtered

	m.persist(ctx, owner)
	return cloneItems(filtered)
}

// UpdateQuantity sets the line quantity, clamping requests below 1 up to 1.
// Updating an absent product is a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, owner string, productID uuid.UUID, quantity int) []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	if quantity < 1 {
		quantity = 1
	}

	items := m.carts[owner]
	changed := false
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Quantity != quantity {
				items[i].Quantity = quantity
				changed = true
			}
			break
		}
	}
	if changed {
		m.carts[owner] = items
		m.persist(ctx, owner)
	}
	return cloneItems(items)
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	m.carts[owner] = []LineItem{}
	m.persist(ctx, owner)
}

// Get returns an independent snapshot of the cart contents.
func (m *Manager) Get(ctx context.Context, owner string) []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	return cloneItems(m.carts[owner])
}

// Subtotal sums unit price times quantity across all lines, rounded to two
// decimal places.
func (m *Manager) Subtotal(ctx context.Context, owner string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRestored(ctx, owner)

	total := decimal.Zero
	for _, li := range m.carts[owner] {
		total = total.Add(li.LineTotal())
	}
	return total.Round(2)
}

// ensureRestored lazily loads the persisted cart on the owner's first access.
// A missing record starts an empty cart; an unreadable record is dropped with
// a warning rather than failing the request. Callers must hold mu.
func (m *Manager) ensureRestored(ctx context.Context, owner string) {
	if m.restored[owner] {
		return
	}
	m.restored[owner] = true

	items, err := m.store.Load(ctx, owner)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && m.logg != nil {
			ctx = m.logg.WithCartOwner(ctx, owner)
			m.logg.Warn(ctx, fmt.Sprintf("discarding unreadable cart record: %v", err))
		}
		m.carts[owner] = []LineItem{}
		return
	}
	m.carts[owner] = items
}

// persist mirrors the current state to the store. Write failures are logged
// and swallowed; in-memory state stays authoritative. Callers must hold mu.
func (m *Manager) persist(ctx context.Context, owner string) {
	if err := m.store.Save(ctx, owner, m.carts[owner]); err != nil && m.logg != nil {
		ctx = m.logg.WithCartOwner(ctx, owner)
		m.logg.Warn(ctx, fmt.Sprintf("cart persistence failed, keeping in-memory state: %v", err))
	}
}
