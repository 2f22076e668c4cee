package models

import "time"

// Role is the authorization level carried in a token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Label is the role name as shown to users.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	}
	return string(r)
}

// Identity is the verified payload of an access token.
type Identity struct {
	SubjectID   string    `json:"userId"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"name"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
