package dto

import "github.com/skillchain/skillchain-api/internal/models"

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Role          string `json:"role" validate:"required,oneof=student employer"`
	WalletAddress string `json:"wallet_address" validate:"omitempty,max=64"`
}

// LoginRequest is the payload for credential-based login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	WalletAddress   string `json:"wallet_address,omitempty"`
	EmployerCredits int    `json:"employer_credits"`
}

// AuthResponse carries a signed token together with the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse maps a user model to its public view.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		WalletAddress:   user.WalletAddress,
		EmployerCredits: user.EmployerCredits,
	}
}
