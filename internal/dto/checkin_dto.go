package dto

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CheckInResponse struct {
	ID              string   `json:"id"`
	UsuarioID       string   `json:"usuarioId"`
	Entrada         string   `json:"entrada"`
	Salida          *string  `json:"salida"`
	HorasTrabajadas *float64 `json:"horasTrabajadas"`
	Fecha           string   `json:"fecha"`
}

// AsistenciaItem is one row of the attendance-by-date view: a shift joined
// with its owner for display.
type AsistenciaItem struct {
	CheckInResponse
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
}
