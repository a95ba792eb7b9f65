package wire

import (
	"mini-ecom/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSocial(
	r chi.Router,
	handler *adaptor.SocialHandler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/google", handler.GoogleLogin)
	r.Post("/api/auth/facebook", handler.FacebookLogin)
}
