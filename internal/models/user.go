package models

import "time"

// Roles assignable to a user account.
const (
	RoleStudent  = "student"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// User represents an account in the marketplace: a student submitting work, an
// employer spending credits, or an administrator reviewing submissions.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Role            string    `gorm:"size:32;not null;index" json:"role"`
	WalletAddress   string    `gorm:"size:64" json:"wallet_address,omitempty"`
	EmployerCredits int       `gorm:"not null;default:0" json:"employer_credits"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsStudent reports whether the account belongs to a student.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
