package adaptor

import (
	"encoding/json"
	"net/http"

	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/usecase"
	"mini-ecom/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// Create handles POST /api/carts. Works without authentication; a
// signed-in caller gets the cart attached to their account.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	resp, err := h.service.CreateCart(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "create cart")
		return
	}

	utils.ResponseCreated(w, "Cart created", resp)
}

// Get handles GET /api/carts/{id}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	resp, err := h.service.GetCart(r.Context(), cartID)
	if err != nil {
		handleServiceError(h.log, w, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "Cart", resp)
}

// AddItem handles POST /api/carts/{id}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	var req request.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.AddItem(r.Context(), cartID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add cart item")
		return
	}

	utils.ResponseSuccess(w, "Item added", resp)
}

// UpdateItem handles PATCH /api/carts/{id}/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	productID, err := utils.ParseUUID(chi.URLParam(r, "productId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req request.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.UpdateItem(r.Context(), cartID, productID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update cart item")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", resp)
}

// RemoveItem handles DELETE /api/carts/{id}/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	productID, err := utils.ParseUUID(chi.URLParam(r, "productId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return
	}

	resp, err := h.service.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		handleServiceError(h.log, w, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "Item removed", resp)
}

// Clear handles DELETE /api/carts/{id}/items
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	if err := h.service.ClearCart(r.Context(), cartID); err != nil {
		handleServiceError(h.log, w, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "Cart cleared", nil)
}

// Delete handles DELETE /api/carts/{id}
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	if err := h.service.DeleteCart(r.Context(), cartID); err != nil {
		handleServiceError(h.log, w, err, "delete cart")
		return
	}

	utils.ResponseSuccess(w, "Cart deleted", nil)
}

// Claim handles POST /api/carts/{id}/claim
func (h *CartHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	cartID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cart ID", nil)
		return
	}

	resp, err := h.service.ClaimCart(r.Context(), cartID, userID)
	if err != nil {
		handleServiceError(h.log, w, err, "claim cart")
		return
	}

	utils.ResponseSuccess(w, "Cart claimed", resp)
}
