package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is a single work shift bounded by Entrada and an optional Salida.
// A user may have at most one open shift (Salida IS NULL) at a time; the
// store enforces this with a partial unique index (see infra.NewDatabase).
// Once closed, a shift is never mutated again.
type CheckIn struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Entrada   time.Time `gorm:"not null"`
	Salida    *time.Time
	// HorasTrabajadas is the wall-clock duration in fractional hours,
	// set exactly once at checkout.
	HorasTrabajadas *float64
	// Fecha anchors the shift to a calendar day (midnight of Entrada's day).
	// Every date-window query filters on this column.
	Fecha     time.Time `gorm:"not null;index"`
	CreatedAt time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}
