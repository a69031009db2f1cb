package entity

import "github.com/google/uuid"

// Role is the caller role asserted by the identity provider.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Caller is the authenticated identity acting on a request.
type Caller struct {
	ID   uuid.UUID
	Role Role
}
