package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront-labs/shopfront-backend/api/controllers"
	"github.com/shopfront-labs/shopfront-backend/api/middleware"
	"github.com/shopfront-labs/shopfront-backend/internal/auth"
	"github.com/shopfront-labs/shopfront-backend/internal/captcha"
	"github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	checkoutsvc "github.com/shopfront-labs/shopfront-backend/internal/checkout"
	"github.com/shopfront-labs/shopfront-backend/internal/orders"
	"github.com/shopfront-labs/shopfront-backend/pkg/auth/session"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
	"github.com/shopfront-labs/shopfront-backend/pkg/metrics"
	"github.com/shopfront-labs/shopfront-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsHandler  http.Handler
	AuthService     auth.Service
	RegisterService auth.RegisterService
	Challenges      captcha.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersRepo      orders.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthLimit.LoginWindow,
		cfg.AuthLimit.LoginIPLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthLimit.RegisterWindow,
		cfg.AuthLimit.RegisterIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.Get("/challenge", controllers.AuthChallenge(deps.Challenges, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Get("/api/v1/products", controllers.ProductSearch(deps.CatalogService, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Post("/api/v1/auth/logout", controllers.AuthLogout(deps.AuthService, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Post("/api/v1/checkout", controllers.Checkout(deps.CheckoutService, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersRepo, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersRepo, logg))
		})
	})

	return r
}
