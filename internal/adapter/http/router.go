package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/adapter/redis"
	"cafeteria-backend/internal/app/idempotency"
	"cafeteria-backend/internal/config"
)

type RouterDeps struct {
	Orders    *OrderHandler
	Menu      *MenuHandler
	Inventory *InventoryHandler
	Limiter   *redis.RateLimiter
	Guard     *idempotency.Guard
	RateLimit config.RateLimitConfig
	Logger    logger.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	window := time.Duration(deps.RateLimit.WindowMinutes) * time.Minute

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(deps.Logger))
	r.Use(LoggingMiddleware(deps.Logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(RequesterMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(deps.Limiter, "general", deps.RateLimit.GeneralMax, window, deps.Logger))

		r.Route("/pedidos", func(r chi.Router) {
			r.Use(RequireRequester)

			r.With(
				RateLimitMiddleware(deps.Limiter, "pedidos", deps.RateLimit.OrdersMax, window, deps.Logger),
				IdempotencyMiddleware(deps.Guard),
			).Post("/", deps.Orders.Create)

			r.Get("/", deps.Orders.List)
			r.Get("/{id}", deps.Orders.Get)
			r.Get("/{id}/historial", deps.Orders.History)
			r.Post("/{id}/cancelar", deps.Orders.Cancel)
			r.With(RequireStaff).Patch("/{id}/estado", deps.Orders.UpdateEstado)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", deps.Menu.List)
			r.Get("/{id}", deps.Menu.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireStaff)
				r.Post("/", deps.Menu.Create)
				r.Put("/{id}", deps.Menu.Update)
				r.Delete("/{id}", deps.Menu.Delete)
				r.Post("/{id}/ingredientes", deps.Menu.AddIngrediente)
				r.Put("/{id}/ingredientes/{ingredienteId}", deps.Menu.UpdateIngrediente)
				r.Delete("/{id}/ingredientes/{ingredienteId}", deps.Menu.RemoveIngrediente)
			})
		})

		r.Route("/ingredientes", func(r chi.Router) {
			r.Use(RequireStaff)
			r.Get("/", deps.Inventory.List)
			r.Get("/bajo-stock", deps.Inventory.LowStock)
			r.Get("/{id}", deps.Inventory.Get)
			r.Post("/", deps.Inventory.Create)
			r.Put("/{id}", deps.Inventory.Update)
			r.Delete("/{id}", deps.Inventory.Delete)
			r.Post("/{id}/ajuste", deps.Inventory.Adjust)
		})
	})

	return r
}
