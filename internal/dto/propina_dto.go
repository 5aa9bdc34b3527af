package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPropinaRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	MetodoPago string          `json:"metodoPago" validate:"required"`
}

// ListarPropinasQuery carries the optional query-string filters.
type ListarPropinasQuery struct {
	Fecha     string // YYYY-MM-DD
	Procesada string // "true" | "false" | ""
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PropinaResponse struct {
	ID         string          `json:"id"`
	Monto      decimal.Decimal `json:"monto"`
	MetodoPago string          `json:"metodoPago"`
	Fecha      string          `json:"fecha"`
	Procesada  bool            `json:"procesada"`
}
