package adaptor

import (
	"encoding/json"
	"net/http"

	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

type TwoFactorHandler struct {
	service usecase.TwoFactorService
	log     *zap.Logger
}

func NewTwoFactorHandler(service usecase.TwoFactorService, log *zap.Logger) *TwoFactorHandler {
	return &TwoFactorHandler{
		service: service,
		log:     log.With(zap.String("handler", "twofactor")),
	}
}

// Setup handles POST /api/2fa/setup
func (h *TwoFactorHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.TwoFactorSetupRequest
	// Body is optional, an empty one uses the default device name
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	resp, err := h.service.Setup(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "setup two-factor")
		return
	}

	utils.ResponseSuccess(w, "Scan the secret, then confirm with a code", resp)
}

// Confirm handles POST /api/2fa/confirm
func (h *TwoFactorHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.TwoFactorConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Confirm(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm two-factor")
		return
	}

	utils.ResponseSuccess(w, "Two-factor enabled. Store the backup codes safely.", resp)
}

// Status handles GET /api/2fa/status
func (h *TwoFactorHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.service.Status(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "two-factor status")
		return
	}

	utils.ResponseSuccess(w, "Two-factor status", resp)
}

// Disable handles POST /api/2fa/disable
func (h *TwoFactorHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Disable(r.Context(), userID, &req); err != nil {
		handleServiceError(h.log, w, err, "disable two-factor")
		return
	}

	utils.ResponseSuccess(w, "Two-factor disabled", nil)
}

// RegenerateBackupCodes handles POST /api/2fa/backup-codes
func (h *TwoFactorHandler) RegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.RegenerateBackupCodes(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "regenerate backup codes")
		return
	}

	utils.ResponseSuccess(w, "New backup codes issued. Older codes no longer work.", resp)
}

// VerifyChallenge handles POST /api/2fa/verify. Unauthenticated: the
// challenge token from the 202 login response is the credential.
func (h *TwoFactorHandler) VerifyChallenge(w http.ResponseWriter, r *http.Request) {
	var req request.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	outcome, err := h.service.VerifyChallenge(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "verify challenge")
		return
	}

	writeLoginOutcome(w, outcome, "Login successful")
}
