package wire

import (
	"mini-ecom/internal/adaptor"
	"mini-ecom/internal/data/repository"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProduct(
	r chi.Router,
	handler *adaptor.ProductHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/products", handler.List)
	r.Get("/api/products/{slug}", handler.GetBySlug)
	r.Get("/api/categories", handler.ListCategories)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(config, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/products", handler.Create)
		r.Patch("/products/{id}", handler.Update)
		r.Delete("/products/{id}", handler.Delete)
		r.Post("/categories", handler.CreateCategory)
	})
}
