package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shopmicro/storefront-backend/api/middleware"
	"github.com/shopmicro/storefront-backend/api/responses"
	"github.com/shopmicro/storefront-backend/api/validators"
	checkoutsvc "github.com/shopmicro/storefront-backend/internal/checkout"
	"github.com/shopmicro/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/logger"
	"github.com/shopmicro/storefront-backend/pkg/types"
)

type placeOrderRequest struct {
	PaymentMethod string                `json:"payment_method" validate:"required"`
	Shipping      types.ShippingAddress `json:"address" validate:"required"`
}

// PlaceOrder submits the authenticated user's cart as an order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			UserID:        userID,
			CartOwner:     owner,
			PaymentMethod: method,
			Shipping:      payload.Shipping,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
