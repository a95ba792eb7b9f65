package request

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type FacebookLoginRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}
