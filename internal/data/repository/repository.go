package repository

import (
	"mini-ecom/pkg/database"

	"go.uber.org/zap"
)

// Repository groups every data access interface behind one constructor
type Repository struct {
	User              UserRepository
	Session           SessionRepository
	OTP               OTPRepository
	TOTPDevice        TOTPDeviceRepository
	BackupCode        BackupCodeRepository
	SocialAccount     SocialAccountRepository
	PhoneVerification PhoneVerificationRepository
	Category          CategoryRepository
	Product           ProductRepository
	Cart              CartRepository
	CartItem          CartItemRepository
	Order             OrderRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:              NewUserRepository(db, log),
		Session:           NewSessionRepository(db, log),
		OTP:               NewOTPRepository(db, log),
		TOTPDevice:        NewTOTPDeviceRepository(db, log),
		BackupCode:        NewBackupCodeRepository(db, log),
		SocialAccount:     NewSocialAccountRepository(db, log),
		PhoneVerification: NewPhoneVerificationRepository(db, log),
		Category:          NewCategoryRepository(db, log),
		Product:           NewProductRepository(db, log),
		Cart:              NewCartRepository(db, log),
		CartItem:          NewCartItemRepository(db, log),
		Order:             NewOrderRepository(db, log),
	}
}
