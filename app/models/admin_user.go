package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

func ValidRole(rol string) bool {
	return rol == RoleAdmin || rol == RoleSuperadmin
}

// AdminUser is keyed by email. Rol is the source of truth for authorization
// and must be mirrored into the claims store whenever it changes so that
// already-issued tokens pick it up on the next refresh.
type AdminUser struct {
	Email        string    `gorm:"size:255;primaryKey" json:"email"`
	Nombre       string    `gorm:"size:255" json:"nombre"`
	Rol          string    `gorm:"size:50;not null" json:"rol"`
	Activo       bool      `gorm:"default:true" json:"activo"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
