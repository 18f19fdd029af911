package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmicro/storefront-backend/api/middleware"
	"github.com/shopmicro/storefront-backend/api/responses"
	"github.com/shopmicro/storefront-backend/api/validators"
	"github.com/shopmicro/storefront-backend/internal/cart"
	"github.com/shopmicro/storefront-backend/internal/catalog"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items     []cart.LineItem `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  string          `json:"subtotal"`
}

func buildCartResponse(items []cart.LineItem) cartResponse {
	if items == nil {
		items = []cart.LineItem{}
	}
	subtotal := decimal.Zero
	count := 0
	for _, li := range items {
		subtotal = subtotal.Add(li.LineTotal())
		count += li.Quantity
	}
	return cartResponse{Items: items, ItemCount: count, Subtotal: subtotal.Round(2).StringFixed(2)}
}

func cartOwnerOrError(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	owner := middleware.CartOwnerFromContext(r.Context())
	if owner == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
		return "", false
	}
	return owner, true
}

// GetCart returns the current cart contents and subtotal.
func GetCart(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := cartOwnerOrError(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, buildCartResponse(carts.Get(r.Context(), owner)))
	}
}

// AddCartItem resolves the product against the catalog and merges it into the
// cart.
func AddCartItem(carts *cart.Manager, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := cartOwnerOrError(w, r, logg)
		if !ok {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := carts.AddItem(r.Context(), owner, cart.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  payload.Quantity,
		})
		responses.WriteSuccess(w, buildCartResponse(items))
	}
}

// UpdateCartItem sets the quantity for an existing line.
func UpdateCartItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := cartOwnerOrError(w, r, logg)
		if !ok {
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := carts.UpdateQuantity(r.Context(), owner, productID, payload.Quantity)
		responses.WriteSuccess(w, buildCartResponse(items))
	}
}

// RemoveCartItem deletes a line from the cart.
func RemoveCartItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := cartOwnerOrError(w, r, logg)
		if !ok {
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		items := carts.RemoveItem(r.Context(), owner, productID)
		responses.WriteSuccess(w, buildCartResponse(items))
	}
}

// ClearCart empties the cart.
func ClearCart(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := cartOwnerOrError(w, r, logg)
		if !ok {
			return
		}

		carts.Clear(r.Context(), owner)
		responses.WriteSuccess(w, buildCartResponse(nil))
	}
}
