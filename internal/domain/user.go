package domain

import "time"

// Role clasifica el nivel de acceso de un usuario.
type Role string

const (
	RoleUser   Role = "user"
	RoleDealer Role = "dealer"
	RoleAdmin  Role = "admin"
)

// Valid reporta si el rol es uno de los valores conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDealer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	Role         Role      `json:"role"`
	IsBlocked    bool      `json:"is_blocked"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActiveUser es la identidad derivada de un access token verificado.
// Vive solo durante el request que la produjo.
type ActiveUser struct {
	Sub          int64  `json:"sub"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	TokenVersion int    `json:"token_version"`
	GoogleID     string `json:"google_id,omitempty"`
}
