package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmicro/storefront-backend/api/controllers"
	"github.com/shopmicro/storefront-backend/api/middleware"
	authsvc "github.com/shopmicro/storefront-backend/internal/auth"
	"github.com/shopmicro/storefront-backend/internal/cart"
	"github.com/shopmicro/storefront-backend/internal/catalog"
	checkoutsvc "github.com/shopmicro/storefront-backend/internal/checkout"
	"github.com/shopmicro/storefront-backend/internal/orders"
	"github.com/shopmicro/storefront-backend/pkg/auth/session"
	"github.com/shopmicro/storefront-backend/pkg/config"
	"github.com/shopmicro/storefront-backend/pkg/logger"
	"github.com/shopmicro/storefront-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionChecker session.AccessSessionChecker
	AuthService    authsvc.Service
	CatalogService catalog.Service
	CartManager    *cart.Manager
	CheckoutSvc    checkoutsvc.Service
	OrderHistory   *orders.History
	Readiness      map[string]controllers.Pinger
	MetricsReg     *prometheus.Registry
}

// NewRouter assembles the storefront HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Assign through the interface only when non-nil so a nil *Registry does
	// not become a non-nil Registerer and defeat NewHTTPMetrics's nil check.
	var metricsReg prometheus.Registerer
	if deps.MetricsReg != nil {
		metricsReg = deps.MetricsReg
	}
	httpMetrics := metrics.NewHTTPMetrics(metricsReg)

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Readiness))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	authRequired := middleware.Auth(deps.Config.JWT, deps.SessionChecker, deps.Logger)
	cartSession := middleware.CartSession(deps.Logger)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, deps.Logger))
		r.Post("/register", controllers.AuthRegister(deps.AuthService, deps.Logger))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, deps.Logger))
		r.With(authRequired).Post("/logout", controllers.AuthLogout(deps.AuthService, deps.Logger))
		r.With(authRequired).Get("/session", controllers.AuthSession(deps.AuthService, deps.Logger))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.CatalogService, deps.Logger))
		r.Get("/{productID}", controllers.GetProduct(deps.CatalogService, deps.Logger))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(cartSession)
		r.Get("/", controllers.GetCart(deps.CartManager, deps.Logger))
		r.Post("/items", controllers.AddCartItem(deps.CartManager, deps.CatalogService, deps.Logger))
		r.Put("/items/{productID}", controllers.UpdateCartItem(deps.CartManager, deps.Logger))
		r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.CartManager, deps.Logger))
		r.Delete("/", controllers.ClearCart(deps.CartManager, deps.Logger))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(authRequired, cartSession)
		r.Post("/", controllers.PlaceOrder(deps.CheckoutSvc, deps.Logger))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authRequired)
		r.Get("/", controllers.ListOrders(deps.OrderHistory, deps.Logger))
		r.Get("/{orderID}", controllers.GetOrder(deps.OrderHistory, deps.Logger))
	})

	return r
}
