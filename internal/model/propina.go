package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Propina is a pooled tip entry. MetodoPago is a free-form tag
// ("EFECTIVO" | "TRANSFERENCIA" | "QR" in practice).
// Propinas are never deleted; only the distribution engine flips
// Procesada to true, and once true the propina is excluded from
// every future run.
type Propina struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(30);not null"`
	Fecha      time.Time       `gorm:"not null;index"`
	Procesada  bool            `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
}
