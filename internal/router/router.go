package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"voltamax-backend/internal/handlers"
	"voltamax-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	chatLimiter *middleware.RateLimiter,
	chatHandler *handlers.ChatHandler,
	newsletterHandler *handlers.NewsletterHandler,
	quoteHandler *handlers.QuoteHandler,
	warrantyHandler *handlers.WarrantyHandler,
	ratesHandler *handlers.RatesHandler,
	adminHandler *handlers.AdminHandler,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Chat (rate limited per client IP) ────
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Stream)
		})

		// ──── Storefront forms ────
		r.Post("/newsletter/subscribe", newsletterHandler.Subscribe)
		r.Post("/quotes", quoteHandler.Create)

		// ──── Warranty ────
		r.Route("/warranty", func(r chi.Router) {
			r.Post("/register", warrantyHandler.Register)
			r.Get("/{serial}", warrantyHandler.Lookup)
		})

		// ──── Currency rates ────
		r.Get("/rates", ratesHandler.Get)

		// ──── Admin ────
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/subscribers", adminHandler.ListSubscribers)
				r.Get("/quotes", adminHandler.ListQuotes)
			})
		})
	})

	return r
}
