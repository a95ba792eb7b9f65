package adaptor

import (
	"encoding/json"
	"net/http"

	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

type PhoneHandler struct {
	service usecase.PhoneService
	log     *zap.Logger
}

func NewPhoneHandler(service usecase.PhoneService, log *zap.Logger) *PhoneHandler {
	return &PhoneHandler{
		service: service,
		log:     log.With(zap.String("handler", "phone")),
	}
}

// SendCode handles POST /api/users/me/phone/send-code
func (h *PhoneHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.SendPhoneCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.SendCode(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "send phone code")
		return
	}

	utils.ResponseSuccess(w, "Verification code sent", resp)
}

// Verify handles POST /api/users/me/phone/verify
func (h *PhoneHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.VerifyPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Verify(r.Context(), userID, &req); err != nil {
		handleServiceError(h.log, w, err, "verify phone")
		return
	}

	utils.ResponseSuccess(w, "Phone verified successfully", nil)
}

// Status handles GET /api/users/me/phone
func (h *PhoneHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.service.Status(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "phone status")
		return
	}

	utils.ResponseSuccess(w, "Phone status", resp)
}

// Remove handles DELETE /api/users/me/phone
func (h *PhoneHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.service.Remove(r.Context(), userID); err != nil {
		handleServiceError(h.log, w, err, "remove phone")
		return
	}

	utils.ResponseSuccess(w, "Phone removed", nil)
}
