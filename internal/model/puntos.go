package model

import "github.com/google/uuid"

// puntosPorRol maps each role to its allocation multiplier. Extending the
// system to more roles means adding a row here — the engine never hardcodes
// weights anywhere else.
var puntosPorRol = map[string]int{
	RolEncargado: 2,
	RolMozo:      1,
}

// PuntosRol returns the multiplier for a role. Unknown roles weigh 1.
func PuntosRol(rol string) int {
	if p, ok := puntosPorRol[rol]; ok {
		return p
	}
	return 1
}

// HorasUsuario is one user's aggregated hours for a day, plus the role
// the weighting is taken from.
type HorasUsuario struct {
	Horas float64
	Rol   string
}

// Puntos returns the weighted points: hours × role multiplier.
func (h HorasUsuario) Puntos() float64 {
	return h.Horas * float64(PuntosRol(h.Rol))
}

// AgruparHorasPorUsuario sums worked hours per user across a day's closed
// shifts. A nil HorasTrabajadas counts as 0. The role is taken from the
// shift's owner (roles are stable within a day).
func AgruparHorasPorUsuario(checkins []CheckIn) map[uuid.UUID]HorasUsuario {
	horas := make(map[uuid.UUID]HorasUsuario, len(checkins))
	for _, ci := range checkins {
		h := 0.0
		if ci.HorasTrabajadas != nil {
			h = *ci.HorasTrabajadas
		}
		actual := horas[ci.UsuarioID]
		actual.Horas += h
		if ci.Usuario != nil {
			actual.Rol = ci.Usuario.Rol
		}
		horas[ci.UsuarioID] = actual
	}
	return horas
}

// PuntosDesdeDetalles recomputes a day's total points and participant count
// from its distribution entries, taking exactly one entry per user so that
// multiple propinas never double-count the same person. This mirrors the
// engine's per-user aggregation: each entry snapshots the user's full-day
// hours, so any one of them reproduces that user's points.
func PuntosDesdeDetalles(detalles []RepartoDetalle) (totalPuntos float64, numeroEmpleados int) {
	vistos := make(map[uuid.UUID]bool, len(detalles))
	for _, d := range detalles {
		if vistos[d.UsuarioID] {
			continue
		}
		vistos[d.UsuarioID] = true
		totalPuntos += d.HorasTrabajadas * float64(d.PuntosRol)
	}
	return totalPuntos, len(vistos)
}
