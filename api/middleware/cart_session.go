package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmicro/storefront-backend/pkg/logger"
)

// CartSessionHeader carries the device-scoped cart key. The storefront client
// persists it locally so the same cart comes back across visits and across
// login/logout cycles.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the cart owner for the request. A missing header gets
// a fresh key; either way the key is echoed back so the client can store it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if owner == "" {
				owner = uuid.NewString()
			}

			w.Header().Set(CartSessionHeader, owner)

			ctx := WithCartOwner(r.Context(), owner)
			if logg != nil {
				ctx = logg.WithCartOwner(ctx, owner)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
