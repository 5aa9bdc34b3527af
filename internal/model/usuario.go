package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol values. The weighting table lives in puntos.go — roles and their
// multipliers are defined once and consumed everywhere.
const (
	RolEncargado = "ENCARGADO"
	RolMozo      = "MOZO"
)

// Usuario stores staff accounts with role-based access.
// Accounts are soft-deactivated (Activo = false), never hard-deleted.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Apellido     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
