package domain

import (
	"encoding/json"
	"time"
)

// Role is the privilege level of a user profile.
type Role string

const (
	RoleUnprivileged Role = ""
	RoleAdmin        Role = "admin"
)

// ParseRole maps a stored role value onto the known roles. Anything other
// than "admin" is unprivileged.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUnprivileged
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
