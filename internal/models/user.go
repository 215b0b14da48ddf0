package models

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RoleNurse   = "nurse"
	RolePatient = "patient"
)

type User struct {
	Base         `bson:",inline"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"passwordHash" json:"-"` // never expose hash in JSON
	Role         string `bson:"role" json:"role"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar       string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// SelfServeRole reports whether a role may be picked at registration.
// Admin accounts are only ever seeded or promoted, never self-registered.
func SelfServeRole(role string) bool {
	switch role {
	case RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin doctor nurse patient"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}
