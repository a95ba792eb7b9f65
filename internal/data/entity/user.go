package entity

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Username      string     `db:"username"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password"`
	DisplayName   *string    `db:"display_name"`
	FirstName     *string    `db:"first_name"`
	LastName      *string    `db:"last_name"`
	Bio           *string    `db:"bio"`
	Gender        *string    `db:"gender"`
	DateOfBirth   *time.Time `db:"date_of_birth"`
	Phone         *string    `db:"phone"`
	PhoneVerified bool       `db:"phone_verified"`
	Role          UserRole   `db:"role"`
	EmailVerified bool       `db:"email_verified"`
	IsActive      bool       `db:"is_active"`
}

// ResolveDisplayName falls back through names to the email local part
func (u *User) ResolveDisplayName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}

	full := ""
	if u.FirstName != nil {
		full = *u.FirstName
	}
	if u.LastName != nil {
		if full != "" {
			full += " "
		}
		full += *u.LastName
	}
	if full != "" {
		return full
	}

	if u.Username != "" {
		return u.Username
	}

	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
