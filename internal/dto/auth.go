package dto

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/juntape/junta/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SignupRequest represents a sign-up request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"required"`
}

// Validate checks the fields binding tags cannot express
func (r *SignupRequest) Validate() (bool, string) {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)

	if !emailRegex.MatchString(r.Email) {
		return false, "Invalid email format"
	}
	if ok, msg := ValidatePassword(r.Password); !ok {
		return false, msg
	}
	role, err := domain.ParseRole(r.Role)
	if err != nil || role == domain.RoleNone {
		return false, "Role must be donor or promoter"
	}
	return true, ""
}

// ValidatePassword requires 8 to 72 characters with a letter and a digit
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}

	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter {
		return false, "Password must contain at least one letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one digit"
	}
	return true, ""
}

// LoginRequest represents a sign-in request. Role is set by the role-specific
// login pages and must match the account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role,omitempty"`
}

// RefreshTokenRequest represents a refresh request; the cookie is used when empty
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
	Redirect     string       `json:"redirect"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ToUserResponse converts a User to its response shape
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
