package response

type PhoneStatusResponse struct {
	Phone    *string `json:"phone"`
	Verified bool    `json:"verified"`
}

type PhoneCodeSentResponse struct {
	Phone     string `json:"phone"`
	ExpiresIn int    `json:"expires_in"`
}
