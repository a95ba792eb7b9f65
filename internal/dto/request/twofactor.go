package request

type TwoFactorSetupRequest struct {
	DeviceName string `json:"device_name" validate:"omitempty,max=64"`
}

type TwoFactorConfirmRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFactorVerifyRequest finishes a challenged login. Code accepts either
// a 6 digit authenticator code or a 10 character backup code.
type TwoFactorVerifyRequest struct {
	ChallengeToken string `json:"challenge_token" validate:"required,uuid4"`
	UserID         string `json:"user_id" validate:"required,uuid4"`
	Code           string `json:"code" validate:"required,min=6,max=10"`
}

// TwoFactorDisableRequest proves possession of the second factor. Code
// accepts either a 6 digit authenticator code or a 10 character backup
// code, same as TwoFactorVerifyRequest.
type TwoFactorDisableRequest struct {
	Code string `json:"code" validate:"required,min=6,max=10"`
}
