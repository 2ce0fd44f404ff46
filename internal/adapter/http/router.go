package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/societyledger/internal/adapter/http/handler"
	"github.com/iho/societyledger/internal/adapter/http/middleware"
	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger             zerolog.Logger
	HealthHandler      *handler.HealthHandler
	LedgerHandler      *handler.LedgerHandler
	TransactionHandler *handler.TransactionHandler
	BillHandler        *handler.BillHandler
	LayoutHandler      *handler.LayoutHandler
	FlatHandler        *handler.FlatHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Metrics            middleware.HTTPObserver
	MetricsHandler     http.Handler
	// TokenVerifier enables bearer authentication. Nil leaves the API open.
	TokenVerifier middleware.TokenVerifier
	OnAuthFailure middleware.AuthFailureRecorder
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	authEnabled := cfg.TokenVerifier != nil

	// Idempotency runs after the role and society checks so a replay is authorized
	// like the original request.
	idempotent := func(next http.Handler) http.Handler { return next }
	if cfg.IdempotencyStore != nil {
		idempotent = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap
	}

	role := func(min domain.Role) func(http.Handler) http.Handler {
		if !authEnabled {
			return idempotent
		}
		gate := middleware.RequireRole(min)
		return func(next http.Handler) http.Handler { return gate(idempotent(next)) }
	}
	read, write, admin := role(domain.RoleMember), role(domain.RoleTreasurer), role(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if authEnabled {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier, cfg.OnAuthFailure))
		}

		r.Route("/layout", func(r chi.Router) {
			r.Use(read)
			r.Get("/formats", cfg.LayoutHandler.Formats)
			r.Post("/preview", cfg.LayoutHandler.Preview)
		})

		r.Route("/societies/{society}", func(r chi.Router) {
			if authEnabled {
				r.Use(middleware.RequireSociety)
			}

			r.Route("/ledger", func(r chi.Router) {
				r.Use(read)
				r.Get("/groups", cfg.LedgerHandler.Groups)
				r.Get("/balances", cfg.LedgerHandler.Balances)
				r.Get("/balance-sheet", cfg.LedgerHandler.BalanceSheet)
				r.Get("/income-expenditure", cfg.LedgerHandler.IncomeExpenditure)
				r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			})

			r.With(read).Get("/transactions", cfg.TransactionHandler.List)
			r.With(write).Post("/transactions", cfg.TransactionHandler.Record)

			r.With(read).Get("/bills", cfg.BillHandler.List)
			r.With(admin).Post("/bills", cfg.BillHandler.Create)

			r.Route("/wings/{wing}", func(r chi.Router) {
				r.With(admin).Post("/layout", cfg.LayoutHandler.Apply)
				r.With(admin).Post("/bills/{billNumber}/apply", cfg.BillHandler.Apply)

				r.Route("/floors/{floor}/flats/{flat}", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(read)
						r.Get("/", cfg.FlatHandler.Get)
						r.Get("/statement", cfg.FlatHandler.Statement)
					})

					r.Group(func(r chi.Router) {
						r.Use(write)
						r.Post("/advances", cfg.FlatHandler.AddAdvance)
						r.Post("/refunds", cfg.FlatHandler.AddRefund)
						r.Delete("/refunds/{voucher}", cfg.FlatHandler.RemoveRefund)
						r.Post("/uncleared", cfg.FlatHandler.AddUncleared)
						r.Post("/uncleared/{voucher}/clear", cfg.FlatHandler.ClearUncleared)
						r.Post("/vehicles", cfg.FlatHandler.AddVehicle)
						r.Delete("/vehicles/{number}", cfg.FlatHandler.RemoveVehicle)
						r.Put("/bills/{billNumber}/status", cfg.FlatHandler.SetBillStatus)
					})
				})
			})
		})
	})

	return r
}
