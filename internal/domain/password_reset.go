package domain

import "time"

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6"`
}

type PasswordResetToken struct {
	ID        int64
	AccountID string
	Token     string
	ExpiresAt time.Time
	Used      bool
}
