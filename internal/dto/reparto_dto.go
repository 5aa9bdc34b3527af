package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CalcularRepartoRequest struct {
	Fecha string `json:"fecha" validate:"required"` // YYYY-MM-DD
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// RepartoResultado is the success payload of a distribution run.
type RepartoResultado struct {
	PropinasProcesadas int `json:"propinasProcesadas"`
	RepartosGenerados  int `json:"repartosGenerados"`
}

// RepartoDetalleResponse is one allocation entry with its source propina.
type RepartoDetalleResponse struct {
	ID              string           `json:"id"`
	PropinaID       string           `json:"propinaId"`
	UsuarioID       string           `json:"usuarioId"`
	MontoAsignado   decimal.Decimal  `json:"montoAsignado"`
	HorasTrabajadas float64          `json:"horasTrabajadas"`
	PuntosRol       int              `json:"puntosRol"`
	Fecha           string           `json:"fecha"`
	Propina         *PropinaResponse `json:"propina,omitempty"`
}

// HistorialItem adds the owning user's display name for the manager view.
type HistorialItem struct {
	RepartoDetalleResponse
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// ResumenDia holds the recomputed day-level aggregates of a distribution run.
type ResumenDia struct {
	PozoTotal        decimal.Decimal            `json:"pozoTotal"`
	NumeroEmpleados  int                        `json:"numeroEmpleados"`
	TotalPuntos      float64                    `json:"totalPuntos"`
	DesglosePropinas map[string]decimal.Decimal `json:"desglosePropinas"`
}

// DetalleDiaResponse merges one entry with its day's aggregates.
type DetalleDiaResponse struct {
	RepartoDetalleResponse
	ResumenDia
}
