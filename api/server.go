/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/*        Wallet registration and read-side views
  /api/orders/*       Order placement and manual payment verification
  /api/withdrawals/*  Withdrawal requests and resolution
  /api/recharges/*    Recharge requests and resolution
  /api/admin/*        Adjustments, reversals, commission config
  /api/reset          Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public; the
  admin group is expected to sit behind an authenticating gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/{id}/wallet", h.GetWallet)
			r.Get("/{id}/transactions", h.GetTransactions)
			r.Get("/{id}/upline", h.GetUpline)
			r.Get("/{id}/withdrawals", h.ListUserWithdrawals)
			r.Get("/{id}/recharges", h.ListUserRecharges)
		})

		// Order routes
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Get("/{id}/commissions", h.GetOrderCommissions)
			r.Post("/{id}/payment/approve", h.ApprovePayment)
			r.Post("/{id}/payment/reject", h.RejectPayment)
		})

		// Withdrawal routes
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", h.CreateWithdrawal)
			r.Get("/{id}", h.GetWithdrawal)
			r.Post("/{id}/approve", h.ApproveWithdrawal)
			r.Post("/{id}/reject", h.RejectWithdrawal)
		})

		// Recharge routes
		r.Route("/recharges", func(r chi.Router) {
			r.Post("/", h.CreateRecharge)
			r.Post("/{id}/approve", h.ApproveRecharge)
			r.Post("/{id}/reject", h.RejectRecharge)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/adjustments", h.CreateAdjustment)
			r.Post("/transactions/{id}/reverse", h.ReverseTransaction)
			r.Get("/commission-config", h.GetCommissionConfig)
			r.Put("/commission-config", h.SetCommissionRate)
			r.Post("/orders/{id}/distribute", h.DistributeOrder)
		})

		// Dev only
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
