package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/markclone/shop-api/internal/application/auth"
	"github.com/markclone/shop-api/internal/application/cart"
	"github.com/markclone/shop-api/internal/application/product"
	"github.com/markclone/shop-api/internal/config"
	"github.com/markclone/shop-api/internal/transport/http/handler"
	appmiddleware "github.com/markclone/shop-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.UserIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		Tokens:    deps.JWTProvider,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
	})
	productSvc := product.NewService(product.ServiceDeps{
		ProductRepo: deps.ProductRepo,
		Cache:       deps.ProductCache,
		ImageStore:  deps.ImageStore,
	})
	cartSvc := cart.NewService(deps.UserRepo)

	authMw := appmiddleware.Auth(deps.JWTProvider, authSvc)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)

	r.Get("/hello", healthH.Ping)

	r.Route("/api/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/auth/sign_up", authH.Signup)
		r.Post("/auth/verifyOTP/{id}", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)

		r.Get("/products", productH.List)
		r.Get("/products/category/{id}", productH.ListByCategory)
		r.Get("/products/{id}/image", productH.GetImage)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/products/new", productH.Create)
			r.Put("/products/update/{id}", productH.Update)
			r.Delete("/products/delete/{id}", productH.Delete)
			r.Post("/products/{id}/image", productH.UploadImage)

			r.Post("/users/cart_create", cartH.Add)
			r.Get("/users/cart_get", cartH.Get)
		})
	})

	return r
}
