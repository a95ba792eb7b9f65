package response

import (
	"time"

	"mini-ecom/internal/data/entity"
)

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

// ChallengeResponse is returned with HTTP 202 when the password or
// social identity checked out but a second factor is still required.
type ChallengeResponse struct {
	ChallengeToken string `json:"challenge_token"`
	UserID         string `json:"user_id"`
	ExpiresIn      int    `json:"expires_in"`
	Message        string `json:"message"`
}

func AuthToResponse(user *entity.User, accessToken string, session *entity.Session, expiresAt time.Time) AuthResponse {
	resp := AuthResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        UserToResponse(user),
	}

	if session != nil {
		resp.RefreshToken = session.Token.String()
	}

	return resp
}
