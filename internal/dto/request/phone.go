package request

type SendPhoneCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type VerifyPhoneRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
