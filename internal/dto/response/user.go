package response

import (
	"time"

	"mini-ecom/internal/data/entity"
)

type UserResponse struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	DisplayName   string          `json:"display_name"`
	FirstName     *string         `json:"first_name,omitempty"`
	LastName      *string         `json:"last_name,omitempty"`
	Bio           *string         `json:"bio,omitempty"`
	Gender        *string         `json:"gender,omitempty"`
	DateOfBirth   *time.Time      `json:"date_of_birth,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	PhoneVerified bool            `json:"phone_verified"`
	Role          entity.UserRole `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	CreatedAt     time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Username:      user.Username,
		Email:         user.Email,
		DisplayName:   user.ResolveDisplayName(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Bio:           user.Bio,
		Gender:        user.Gender,
		DateOfBirth:   user.DateOfBirth,
		Phone:         user.Phone,
		PhoneVerified: user.PhoneVerified,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
}

type SocialAccountResponse struct {
	Provider    string    `json:"provider"`
	ProviderUID string    `json:"provider_uid"`
	LinkedAt    time.Time `json:"linked_at"`
}

func SocialAccountToResponse(account *entity.SocialAccount) SocialAccountResponse {
	return SocialAccountResponse{
		Provider:    string(account.Provider),
		ProviderUID: account.ProviderUID,
		LinkedAt:    account.CreatedAt,
	}
}
