package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepartoService interface {
	// Calcular runs the proportional distribution for one calendar day.
	Calcular(ctx context.Context, fecha string) (*dto.RepartoResultado, error)
	MisRepartos(ctx context.Context, usuarioID uuid.UUID, fechaDesde string) ([]dto.RepartoDetalleResponse, error)
	Historial(ctx context.Context, fecha string) ([]dto.HistorialItem, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.DetalleDiaResponse, error)
}

type repartoService struct {
	repo repository.RepartoRepository
	rdb  *redis.Client
}

// NewRepartoService builds the distribution engine. rdb may be nil — the
// day-summary cache is then skipped entirely (unit test mode).
func NewRepartoService(repo repository.RepartoRepository, rdb *redis.Client) RepartoService {
	return &repartoService{repo: repo, rdb: rdb}
}

const (
	resumenCachePrefix = "reparto:dia:"
	resumenCacheTTL    = 5 * time.Minute
)

// ── Calcular ──────────────────────────────────────────────────────────────────
// One atomic transaction:
//  1. fetch the day's pending propinas (oldest first)
//  2. fetch the day's closed shifts with owners
//  3. aggregate hours per user, weight by role, total the points
//  4. allocate each propina proportionally, one detalle per (propina, user)
//  5. mark each propina processed
//
// Any failure aborts the transaction with zero writes; callers may retry.
// Every participating user receives a share of every pending propina that
// day, proportional to their day-long point total — a pool-the-whole-day
// model, not per-tip-per-shift. Rounding is independent per (propina, user)
// pair; per-propina drift stays within one cent and is accepted.

func (s *repartoService) Calcular(ctx context.Context, fecha string) (*dto.RepartoResultado, error) {
	if fecha == "" {
		return nil, apierror.Validation("Fecha requerida (YYYY-MM-DD)")
	}
	dia, err := model.ParseFecha(fecha)
	if err != nil {
		return nil, apierror.Validation("Fecha inválida, se espera YYYY-MM-DD")
	}
	desde, hasta := model.VentanaDia(dia)

	var resultado dto.RepartoResultado
	txErr := s.repo.WithinTx(ctx, func(tx repository.RepartoTx) error {
		propinas, err := tx.PropinasPendientes(desde, hasta)
		if err != nil {
			return apierror.Store(err)
		}
		if len(propinas) == 0 {
			return apierror.Conflict("No hay propinas pendientes para esta fecha")
		}

		checkins, err := tx.CheckInsCerrados(desde, hasta)
		if err != nil {
			return apierror.Store(err)
		}
		if len(checkins) == 0 {
			return apierror.Conflict("No hay turnos cerrados (check-ins) para repartir en esta fecha")
		}

		horasPorUsuario := model.AgruparHorasPorUsuario(checkins)

		totalPuntos := 0.0
		for _, hu := range horasPorUsuario {
			totalPuntos += hu.Puntos()
		}
		if totalPuntos == 0 {
			return apierror.Conflict("Total de puntos es 0, no se puede repartir")
		}

		generados := 0
		for _, propina := range propinas {
			for usuarioID, hu := range horasPorUsuario {
				// monto × puntos ÷ total, rounded per pair — exact when the
				// share divides evenly, within one cent otherwise.
				monto := propina.Monto.
					Mul(decimal.NewFromFloat(hu.Puntos())).
					Div(decimal.NewFromFloat(totalPuntos)).
					Round(2)

				detalle := &model.RepartoDetalle{
					PropinaID:       propina.ID,
					UsuarioID:       usuarioID,
					MontoAsignado:   monto,
					HorasTrabajadas: hu.Horas,
					PuntosRol:       model.PuntosRol(hu.Rol),
					Fecha:           dia,
				}
				if err := tx.CrearDetalle(detalle); err != nil {
					return apierror.Store(err)
				}
				generados++
			}

			if err := tx.MarcarProcesada(propina.ID); err != nil {
				return apierror.Store(err)
			}
		}

		resultado = dto.RepartoResultado{
			PropinasProcesadas: len(propinas),
			RepartosGenerados:  generados,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidarResumen(ctx, dia)

	log.Info().
		Str("fecha", fecha).
		Int("propinas", resultado.PropinasProcesadas).
		Int("repartos", resultado.RepartosGenerados).
		Msg("reparto calculado")

	return &resultado, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *repartoService) MisRepartos(ctx context.Context, usuarioID uuid.UUID, fechaDesde string) ([]dto.RepartoDetalleResponse, error) {
	var desde *time.Time
	if fechaDesde != "" {
		d, err := model.ParseFecha(fechaDesde)
		if err != nil {
			return nil, apierror.Validation("fechaDesde inválida, se espera YYYY-MM-DD")
		}
		desde = &d
	}

	detalles, err := s.repo.ListByUsuario(ctx, usuarioID, desde)
	if err != nil {
		return nil, apierror.Store(err)
	}

	resp := make([]dto.RepartoDetalleResponse, 0, len(detalles))
	for _, d := range detalles {
		resp = append(resp, detalleToResponse(&d))
	}
	return resp, nil
}

func (s *repartoService) Historial(ctx context.Context, fecha string) ([]dto.HistorialItem, error) {
	var desde, hasta *time.Time
	if fecha != "" {
		dia, err := model.ParseFecha(fecha)
		if err != nil {
			return nil, apierror.Validation("Fecha inválida, se espera YYYY-MM-DD")
		}
		d, h := model.VentanaDia(dia)
		desde, hasta = &d, &h
	}

	detalles, err := s.repo.Historial(ctx, desde, hasta)
	if err != nil {
		return nil, apierror.Store(err)
	}

	items := make([]dto.HistorialItem, 0, len(detalles))
	for _, d := range detalles {
		item := dto.HistorialItem{RepartoDetalleResponse: detalleToResponse(&d)}
		if d.Usuario != nil {
			item.Nombre = d.Usuario.Nombre
			item.Apellido = d.Usuario.Apellido
		}
		items = append(items, item)
	}
	return items, nil
}

// Detalle reconstructs the full picture of one day's run from a single entry:
// the day's pool total, participant count, total points and per-method
// breakdown, all recomputed from the immutable detalles and processed
// propinas rather than stored redundantly. The aggregates are cached per day
// in Redis and dropped whenever Calcular commits for that date.
func (s *repartoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.DetalleDiaResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Reparto no encontrado")
	}
	if err != nil {
		return nil, apierror.Store(err)
	}

	resumen, err := s.resumenDelDia(ctx, detalle.Fecha)
	if err != nil {
		return nil, err
	}

	return &dto.DetalleDiaResponse{
		RepartoDetalleResponse: detalleToResponse(detalle),
		ResumenDia:             *resumen,
	}, nil
}

func (s *repartoService) resumenDelDia(ctx context.Context, dia time.Time) (*dto.ResumenDia, error) {
	clave := resumenCachePrefix + dia.Format(model.FechaLayout)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, clave).Bytes(); err == nil {
			var resumen dto.ResumenDia
			if json.Unmarshal(cached, &resumen) == nil {
				return &resumen, nil
			}
		}
	}

	desde, hasta := model.VentanaDia(dia)

	detalles, err := s.repo.DetallesEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, apierror.Store(err)
	}
	propinas, err := s.repo.PropinasProcesadasEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, apierror.Store(err)
	}

	pozoTotal := decimal.Zero
	desglose := make(map[string]decimal.Decimal)
	for _, p := range propinas {
		pozoTotal = pozoTotal.Add(p.Monto)
		desglose[p.MetodoPago] = desglose[p.MetodoPago].Add(p.Monto)
	}

	totalPuntos, numeroEmpleados := model.PuntosDesdeDetalles(detalles)

	resumen := &dto.ResumenDia{
		PozoTotal:        pozoTotal,
		NumeroEmpleados:  numeroEmpleados,
		TotalPuntos:      totalPuntos,
		DesglosePropinas: desglose,
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(resumen); err == nil {
			if err := s.rdb.Set(ctx, clave, encoded, resumenCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("clave", clave).Msg("no se pudo cachear el resumen del día")
			}
		}
	}

	return resumen, nil
}

func (s *repartoService) invalidarResumen(ctx context.Context, dia time.Time) {
	if s.rdb == nil {
		return
	}
	clave := resumenCachePrefix + dia.Format(model.FechaLayout)
	if err := s.rdb.Del(ctx, clave).Err(); err != nil {
		log.Warn().Err(err).Str("clave", clave).Msg("no se pudo invalidar el resumen del día")
	}
}

func detalleToResponse(d *model.RepartoDetalle) dto.RepartoDetalleResponse {
	resp := dto.RepartoDetalleResponse{
		ID:              d.ID.String(),
		PropinaID:       d.PropinaID.String(),
		UsuarioID:       d.UsuarioID.String(),
		MontoAsignado:   d.MontoAsignado,
		HorasTrabajadas: d.HorasTrabajadas,
		PuntosRol:       d.PuntosRol,
		Fecha:           d.Fecha.Format(model.FechaLayout),
	}
	if d.Propina != nil {
		p := propinaToResponse(d.Propina)
		resp.Propina = &p
	}
	return resp
}
