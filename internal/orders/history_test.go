package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testOrder(userID uuid.UUID, id string) Order {
	return Order{
		ID:            id,
		Reference:     "ORD-" + id,
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("99.99"),
		Status:        enums.OrderStatusCompleted,
		PaymentMethod: enums.PaymentMethodCreditCard,
		CreatedAt:     time.Now(),
	}
}

func TestRecordPrependsNewestFirst(t *testing.T) {
	history := NewHistory()
	userID := uuid.New()

	history.Record(testOrder(userID, "first"))
	history.Record(testOrder(userID, "second"))

	orders := history.ListForUser(userID)
	require.Len(t, orders, 2)
	require.Equal(t, "second", orders[0].ID)
	require.Equal(t, "first", orders[1].ID)
}

func TestListForUserIsolatesUsers(t *testing.T) {
	history := NewHistory()
	alice := uuid.New()
	bob := uuid.New()

	history.Record(testOrder(alice, "a1"))

	require.Len(t, history.ListForUser(alice), 1)
	require.Empty(t, history.ListForUser(bob))
}

func TestGetForUser(t *testing.T) {
	history := NewHistory()
	userID := uuid.New()
	history.Record(testOrder(userID, "a1"))

	order, err := history.GetForUser(userID, "a1")
	require.NoError(t, err)
	require.Equal(t, "ORD-a1", order.Reference)

	_, err = history.GetForUser(userID, "missing")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDropForUser(t *testing.T) {
	history := NewHistory()
	userID := uuid.New()
	history.Record(testOrder(userID, "a1"))

	history.DropForUser(userID)
	require.Empty(t, history.ListForUser(userID))
}
