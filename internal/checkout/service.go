package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/internal/cart"
	"github.com/shopmicro/storefront-backend/internal/orders"
	"github.com/shopmicro/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/logger"
	"github.com/shopmicro/storefront-backend/pkg/metrics"
	"github.com/shopmicro/storefront-backend/pkg/ordergateway"
	"github.com/shopmicro/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// PlaceOrderInput is the validated payload to place an order.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	CartOwner     string
	PaymentMethod enums.PaymentMethod
	Shipping      types.ShippingAddress
}

// Service coordinates order placement: cart snapshot, remote submission, and
// history recording.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.Order, error)
}

type service struct {
	carts   *cart.Manager
	history *orders.History
	gateway ordergateway.Gateway
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the checkout service.
func NewService(carts *cart.Manager, history *orders.History, gateway ordergateway.Gateway, checkoutMetrics *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	if history == nil {
		return nil, fmt.Errorf("order history required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	return &service{
		carts:   carts,
		history: history,
		gateway: gateway,
		metrics: checkoutMetrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// PlaceOrder validates preconditions, submits the cart snapshot to the remote
// order service, and on success records the order and clears the cart. A
// remote failure leaves both cart and history untouched.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.Order, error) {
	started := s.now()

	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.Shipping.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	snapshot := s.carts.Get(ctx, input.CartOwner)
	if len(snapshot) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	// total comes from the snapshot, not the live cart, so a concurrent
	// mutation cannot make amount and items disagree
	subtotal := decimal.Zero
	for _, li := range snapshot {
		subtotal = subtotal.Add(li.LineTotal())
	}
	subtotal = subtotal.Round(2)

	reference := fmt.Sprintf("ORD-%d", s.now().UnixMilli())

	items := make([]ordergateway.OrderItem, 0, len(snapshot))
	for _, li := range snapshot {
		items = append(items, ordergateway.OrderItem{
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
		})
	}

	confirmation, err := s.gateway.Submit(ctx, ordergateway.OrderRequest{
		CustomerID:    input.UserID,
		Items:         items,
		Amount:        subtotal.InexactFloat64(),
		PaymentMethod: input.PaymentMethod.String(),
		Reference:     reference,
		Shipping:      input.Shipping,
	})
	if err != nil {
		s.metrics.IncFailure(input.PaymentMethod.String())
		if s.logg != nil {
			s.logg.Error(s.logg.WithUserID(ctx, input.UserID.String()), "order submission failed", err)
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	}

	orderID := confirmation.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	status := enums.OrderStatusPending
	if confirmation.Accepted() {
		status = enums.OrderStatusCompleted
	}

	order := orders.Order{
		ID:            orderID,
		Reference:     reference,
		UserID:        input.UserID,
		Items:         snapshot,
		TotalAmount:   subtotal,
		Status:        status,
		PaymentMethod: input.PaymentMethod,
		Shipping:      input.Shipping,
		CreatedAt:     s.now(),
	}
	s.history.Record(order)
	s.carts.Clear(ctx, input.CartOwner)

	s.metrics.IncSuccess(input.PaymentMethod.String())
	s.metrics.ObserveDuration(input.PaymentMethod.String(), s.now().Sub(started))

	if s.logg != nil {
		ctx = s.logg.WithOrderID(s.logg.WithUserID(ctx, input.UserID.String()), order.ID)
		s.logg.Info(ctx, "order placed")
	}

	return &order, nil
}
