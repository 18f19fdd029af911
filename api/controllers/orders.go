package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopmicro/storefront-backend/api/middleware"
	"github.com/shopmicro/storefront-backend/api/responses"
	"github.com/shopmicro/storefront-backend/internal/orders"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/logger"
)

// ListOrders returns the authenticated user's session order history.
func ListOrders(history *orders.History, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		responses.WriteSuccess(w, history.ListForUser(userID))
	}
}

// GetOrder returns a single order from the user's session history.
func GetOrder(history *orders.History, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		order, err := history.GetForUser(userID, chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
