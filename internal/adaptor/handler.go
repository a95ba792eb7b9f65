package adaptor

import (
	"net/http"
	"strings"

	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	TwoFactor *TwoFactorHandler
	Social    *SocialHandler
	Phone     *PhoneHandler
	User      *UserHandler
	Product   *ProductHandler
	Cart      *CartHandler
	Order     *OrderHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		TwoFactor: NewTwoFactorHandler(service.TwoFactor, log),
		Social:    NewSocialHandler(service.Social, log),
		Phone:     NewPhoneHandler(service.Phone, log),
		User:      NewUserHandler(service.User, log),
		Product:   NewProductHandler(service.Product, log),
		Cart:      NewCartHandler(service.Cart, log),
		Order:     NewOrderHandler(service.Order, log),
	}
}

// handleServiceError maps service error messages onto HTTP statuses
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"),
		strings.Contains(errMsg, "no longer available"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "already registered"),
		strings.Contains(errMsg, "already taken"),
		strings.Contains(errMsg, "already exists"),
		strings.Contains(errMsg, "already in use"),
		strings.Contains(errMsg, "already enabled"):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "invalid credentials"),
		strings.Contains(errMsg, "incorrect"):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "deactivated"),
		strings.Contains(errMsg, "belongs to another user"):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "too many"):
		log.Warn(operation+" failed - rate limited", zap.Error(err))
		utils.ResponseTooManyRequests(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "verify your email"),
		strings.Contains(errMsg, "cannot be"),
		strings.Contains(errMsg, "expired"),
		strings.Contains(errMsg, "no pending"),
		strings.Contains(errMsg, "empty"),
		strings.Contains(errMsg, "insufficient stock"),
		strings.Contains(errMsg, "out of stock"),
		strings.Contains(errMsg, "must be"),
		strings.Contains(errMsg, "matches current"),
		strings.Contains(errMsg, "no phone"),
		strings.Contains(errMsg, "no email"),
		strings.Contains(errMsg, "not enabled"),
		strings.Contains(errMsg, "not in cart"):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// writeLoginOutcome sends 200 with tokens or 202 with a challenge
func writeLoginOutcome(w http.ResponseWriter, outcome *usecase.LoginOutcome, successMessage string) {
	if outcome.ChallengeRequired() {
		utils.ResponseAccepted(w, "Two-factor code required", outcome.Challenge)
		return
	}
	utils.ResponseSuccess(w, successMessage, outcome.Auth)
}
