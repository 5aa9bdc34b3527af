package model

import "time"

// FechaLayout is the wire format for calendar dates.
const FechaLayout = "2006-01-02"

// ParseFecha parses a YYYY-MM-DD date string in the server's local zone.
func ParseFecha(s string) (time.Time, error) {
	return time.ParseInLocation(FechaLayout, s, time.Local)
}

// Dia truncates a timestamp to midnight of its calendar day.
func Dia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// VentanaDia returns the half-open window [00:00, +24h) for a calendar day.
// Every date filter in the system — allocation, history, attendance, and the
// daily-detail reconstruction — goes through this single helper so the
// boundaries can never drift apart.
func VentanaDia(fecha time.Time) (desde, hasta time.Time) {
	desde = Dia(fecha)
	return desde, desde.AddDate(0, 0, 1)
}
