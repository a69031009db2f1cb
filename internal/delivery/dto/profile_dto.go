package dto

import (
	"github.com/google/uuid"
)

// ProfileSummary is the public view of a user identity.
type ProfileSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Role     string    `json:"role"`
}
