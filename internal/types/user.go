package types

import (
	"time"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
)

// UserResponse is the API view of a user record. The password hash never
// leaves the handlers.
type UserResponse struct {
	ID            uint                     `json:"id"`
	Name          string                   `json:"name"`
	Email         string                   `json:"email"`
	Role          string                   `json:"role"`
	Phone         string                   `json:"phone,omitempty"`
	Bio           string                   `json:"bio,omitempty"`
	Allergies     []string                 `json:"allergies"`
	Notifications models.NotificationPrefs `json:"notifications"`
	CreatedAt     time.Time                `json:"created_at"`
}

func NewUserResponse(user models.User) UserResponse {
	allergies := []string(user.Allergies)
	if allergies == nil {
		allergies = []string{}
	}

	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Phone:         user.Phone,
		Bio:           user.Bio,
		Allergies:     allergies,
		Notifications: user.Preferences.Data(),
		CreatedAt:     user.CreatedAt,
	}
}
