package wire

import (
	"mini-ecom/internal/adaptor"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	handler *adaptor.OrderHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(config, log))

		r.Post("/", handler.Checkout)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.Get)
	})
}
