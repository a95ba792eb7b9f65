package wire

import (
	"mini-ecom/internal/adaptor"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	handler *adaptor.CartHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== GUEST-FRIENDLY ROUTES ====================
	// Carts work without an account. OptionalAuth attaches ownership
	// when a token is present.
	r.Route("/api/carts", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(config, log))

		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Post("/{id}/items", handler.AddItem)
		r.Patch("/{id}/items/{productId}", handler.UpdateItem)
		r.Delete("/{id}/items/{productId}", handler.RemoveItem)
		r.Delete("/{id}/items", handler.Clear)
		r.Delete("/{id}", handler.Delete)

		// Claiming needs a signed-in user; the handler enforces it
		r.Post("/{id}/claim", handler.Claim)
	})
}
