package adaptor

import (
	"encoding/json"
	"net/http"

	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

type SocialHandler struct {
	service usecase.SocialService
	log     *zap.Logger
}

func NewSocialHandler(service usecase.SocialService, log *zap.Logger) *SocialHandler {
	return &SocialHandler{
		service: service,
		log:     log.With(zap.String("handler", "social")),
	}
}

// GoogleLogin handles POST /api/auth/google
func (h *SocialHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req request.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	outcome, err := h.service.GoogleLogin(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "google login")
		return
	}

	writeLoginOutcome(w, outcome, "Login successful")
}

// FacebookLogin handles POST /api/auth/facebook
func (h *SocialHandler) FacebookLogin(w http.ResponseWriter, r *http.Request) {
	var req request.FacebookLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	outcome, err := h.service.FacebookLogin(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "facebook login")
		return
	}

	writeLoginOutcome(w, outcome, "Login successful")
}

// LinkedAccounts handles GET /api/users/me/social
func (h *SocialHandler) LinkedAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	accounts, err := h.service.LinkedAccounts(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "list linked accounts")
		return
	}

	utils.ResponseSuccess(w, "Linked accounts", accounts)
}
