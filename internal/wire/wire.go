// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"mini-ecom/internal/adaptor"
	"mini-ecom/internal/challenge"
	"mini-ecom/internal/client/oauth"
	"mini-ecom/internal/client/sms"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/middleware"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, redisClient *redis.Client, config *utils.Config, logger *zap.Logger) *App {
	// External collaborators
	challengeTTL := time.Duration(config.TOTP.ChallengeTTLMins) * time.Minute
	challenges := challenge.NewStore(redisClient, challengeTTL, logger)
	limiter := challenge.NewRateLimiter(redisClient, logger)
	smsSender := sms.NewClient(config.SMS, logger)
	google := oauth.NewGoogleVerifier(config.OAuth, logger)
	facebook := oauth.NewFacebookVerifier(config.OAuth, logger)

	// Initialize services and handlers
	service := usecase.NewService(repo, challenges, limiter, smsSender, google, facebook, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, config, logger)
	wireTwoFactor(r, handler.TwoFactor, config, logger)
	wireSocial(r, handler.Social)
	wireUser(r, handler.User, handler.Phone, handler.Social, config, logger)
	wireProduct(r, handler.Product, repo, config, logger)
	wireCart(r, handler.Cart, config, logger)
	wireOrder(r, handler.Order, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
