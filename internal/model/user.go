package model

import (
	"net/mail"
	"time"
	"unicode"
)

var Admin = "Admin"
var Moderator = "Moderator"
var Vendor = "Vendor"
var Customer = "Customer"

var PossibleRoles = []string{Admin, Moderator, Vendor, Customer}

type User struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	Name              string    `db:"name" json:"name,omitempty"`
	Role              string    `db:"role" json:"role"`
	Password          string    `db:"password_hash" json:"-"`
	PasswordTemporary bool      `db:"password_temporary" json:"passwordTemporary"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

// AccountAgeDays is measured against wall clock at evaluation time.
func (u *User) AccountAgeDays(now time.Time) float64 {
	return now.Sub(u.CreatedAt).Hours() / 24
}

type Session struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	AccessToken  string    `db:"access_token" json:"accessToken"`
	RefreshToken string    `db:"refresh_token" json:"refreshToken"`
	ExpiresAt    time.Time `db:"expires_at" json:"expiresAt"`
}

type RegisterUserDTO struct {
	Validator

	Email string `json:"email"`
	Role  string `json:"role"`
}

func (dto *RegisterUserDTO) Validate() map[string]string {
	errs := make(map[string]string)

	if dto.Email == "" {
		errs["email"] = ErrEmptyField
	} else if _, pErr := mail.ParseAddress(dto.Email); pErr != nil {
		errs["email"] = ErrInvalidField
	}
	if dto.Role != "" && !inStringSlice(dto.Role, []string{Vendor, Customer}) {
		errs["role"] = ErrInvalidField
	}

	return errs
}

type LoginDTO struct {
	Validator

	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto *LoginDTO) Validate() map[string]string {
	errs := make(map[string]string)

	if dto.Email == "" {
		errs["email"] = ErrEmptyField
	} else if _, pErr := mail.ParseAddress(dto.Email); pErr != nil {
		errs["email"] = ErrInvalidField
	}
	if dto.Password == "" {
		errs["password"] = ErrEmptyField
	}

	return errs
}

type RefreshTokenDTO struct {
	Validator

	RefreshToken string `json:"refreshToken"`
}

func (dto *RefreshTokenDTO) Validate() map[string]string {
	errs := make(map[string]string)
	if dto.RefreshToken == "" {
		errs["refreshToken"] = ErrEmptyField
	}
	return errs
}

type ChangePasswordDTO struct {
	Validator

	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (dto *ChangePasswordDTO) Validate() map[string]string {
	errs := make(map[string]string)

	if dto.Password == "" {
		errs["password"] = ErrEmptyField
	}
	if dto.NewPassword == "" {
		errs["newPassword"] = ErrEmptyField
	} else if dto.NewPassword == dto.Password {
		errs["newPassword"] = ErrInvalidField
	} else {
		hasLower, hasUpper, hasDigit := false, false, false
		for _, char := range dto.NewPassword {
			if unicode.IsLower(char) {
				hasLower = true
			} else if unicode.IsUpper(char) {
				hasUpper = true
			} else if unicode.IsDigit(char) {
				hasDigit = true
			}
		}
		if !hasLower || !hasUpper || !hasDigit || len(dto.NewPassword) < 6 {
			errs["newPassword"] = ErrInvalidField
		}
	}

	return errs
}

type LoginResponse struct {
	TokenType    string `json:"tokenType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	TokenType    string `json:"tokenType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type JwtDTO struct {
	ID                string `json:"id"`
	Role              string `json:"role"`
	SID               string `json:"sid"`
	PasswordTemporary bool   `json:"passwordTemporary"`
}
