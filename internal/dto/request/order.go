package request

type CheckoutRequest struct {
	CartID string `json:"cart_id" validate:"required,uuid4"`
}
