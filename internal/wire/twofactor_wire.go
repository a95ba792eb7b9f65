package wire

import (
	"mini-ecom/internal/adaptor"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTwoFactor(
	r chi.Router,
	handler *adaptor.TwoFactorHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/2fa", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Verify finishes a challenged login; the challenge token is
		// the credential so no bearer token exists yet
		r.Post("/verify", handler.VerifyChallenge)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(config, log))

			r.Post("/setup", handler.Setup)
			r.Post("/confirm", handler.Confirm)
			r.Get("/status", handler.Status)
			r.Post("/disable", handler.Disable)
			r.Post("/backup-codes", handler.RegenerateBackupCodes)
		})
	})
}
