package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepartoDetalle records one user's allocated share of one propina,
// produced by a distribution run. Rows are immutable: runs only insert
// new detalles and mark source propinas processed, never update.
// HorasTrabajadas and PuntosRol are snapshots taken at allocation time;
// later changes to the source shifts do not propagate here.
type RepartoDetalle struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PropinaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoAsignado   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HorasTrabajadas float64         `gorm:"not null"`
	PuntosRol       int             `gorm:"not null"`
	// Fecha is the run's target date, used for grouping and history.
	Fecha     time.Time `gorm:"not null;index"`
	CreatedAt time.Time

	Propina *Propina `gorm:"foreignKey:PropinaID"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}
