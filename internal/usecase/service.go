package usecase

import (
	"mini-ecom/internal/challenge"
	"mini-ecom/internal/client/oauth"
	"mini-ecom/internal/client/sms"
	"mini-ecom/internal/data/repository"
	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	TwoFactor TwoFactorService
	Social    SocialService
	Phone     PhoneService
	User      UserService
	Product   ProductService
	Cart      CartService
	Order     OrderService
}

func NewService(
	repo *repository.Repository,
	challenges challenge.Store,
	limiter challenge.RateLimiter,
	smsSender sms.Sender,
	google oauth.GoogleVerifier,
	facebook oauth.FacebookVerifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, challenges, config, log),
		TwoFactor: NewTwoFactorService(repo, challenges, config, log),
		Social:    NewSocialService(repo, challenges, google, facebook, config, log),
		Phone:     NewPhoneService(repo, limiter, smsSender, config, log),
		User:      NewUserService(repo, config, log),
		Product:   NewProductService(repo, log),
		Cart:      NewCartService(repo, log),
		Order:     NewOrderService(repo, log),
	}
}
