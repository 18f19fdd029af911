package orders

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/internal/cart"
	"github.com/shopmicro/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Order is a completed purchase as shown in a user's history.
type Order struct {
	ID            string                `json:"id"`
	Reference     string                `json:"reference"`
	UserID        uuid.UUID             `json:"user_id"`
	Items         []cart.LineItem       `json:"items"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        enums.OrderStatus     `json:"status"`
	PaymentMethod enums.PaymentMethod   `json:"payment_method"`
	Shipping      types.ShippingAddress `json:"shipping"`
	CreatedAt     time.Time             `json:"created_at"`
}

// History is a per-user session cache of placed orders, newest first. It is
// deliberately not persisted: logging out drops the user's history while
// their cart lives on in the durable store.
type History struct {
	mu     sync.Mutex
	byUser map[uuid.UUID][]Order
}

// NewHistory constructs an empty order history cache.
func NewHistory() *History {
	return &History{byUser: make(map[uuid.UUID][]Order)}
}

// Record prepends the order to the user's history.
func (h *History) Record(order Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byUser[order.UserID] = append([]Order{order}, h.byUser[order.UserID]...)
}

// ListForUser returns a snapshot of the user's orders, newest first.
func (h *History) ListForUser(userID uuid.UUID) []Order {
	h.mu.Lock()
	defer h.mu.Unlock()
	orders := h.byUser[userID]
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}

// GetForUser returns a single order from the user's history.
func (h *History) GetForUser(userID uuid.UUID, orderID string) (*Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, order := range h.byUser[userID] {
		if order.ID == orderID {
			found := order
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// DropForUser discards the user's cached history. Called on logout.
func (h *History) DropForUser(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.byUser, userID)
}
