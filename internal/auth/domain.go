package auth

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles known to the application.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Password hashes and one-time token
// fields never leave the auth and users packages; API responses use Profile.
type User struct {
	ID                 int64
	Username           string
	Email              string
	PasswordHash       string
	Role               string
	IsVerified         bool
	VerificationToken  *string
	VerificationExpiry *time.Time
	ResetToken         *string
	ResetExpiry        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Profile is the sanitized view of a user returned by the API.
type Profile struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Profile returns the sanitized view of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// HashPassword is the single credential-preparation step used by every write
// path that sets a password.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a candidate password against the stored hash.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
