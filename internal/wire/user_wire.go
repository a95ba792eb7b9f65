package wire

import (
	"mini-ecom/internal/adaptor"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	phoneHandler *adaptor.PhoneHandler,
	socialHandler *adaptor.SocialHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/users/me", func(r chi.Router) {
		r.Use(middleware.Auth(config, log))

		r.Get("/", userHandler.GetProfile)
		r.Patch("/", userHandler.UpdateProfile)
		r.Delete("/", userHandler.Deactivate)

		r.Post("/email", userHandler.ChangeEmail)
		r.Post("/email/confirm", userHandler.ConfirmEmailChange)

		r.Get("/phone", phoneHandler.Status)
		r.Delete("/phone", phoneHandler.Remove)
		r.Post("/phone/send-code", phoneHandler.SendCode)
		r.Post("/phone/verify", phoneHandler.Verify)

		r.Get("/social", socialHandler.LinkedAccounts)
	})
}
