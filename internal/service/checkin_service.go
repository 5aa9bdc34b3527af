package service

import (
	"context"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/google/uuid"
)

type CheckInService interface {
	Entrada(ctx context.Context, usuarioID uuid.UUID) (*dto.CheckInResponse, error)
	Salida(ctx context.Context, usuarioID uuid.UUID) (*dto.CheckInResponse, error)
	MisCheckins(ctx context.Context, usuarioID uuid.UUID) ([]dto.CheckInResponse, error)
	// PorFecha is the attendance view: every shift of the day, open or
	// closed, with the owner's name and role.
	PorFecha(ctx context.Context, fecha string) ([]dto.AsistenciaItem, error)
}

type checkinService struct {
	repo repository.CheckInRepository
}

func NewCheckInService(repo repository.CheckInRepository) CheckInService {
	return &checkinService{repo: repo}
}

func (s *checkinService) Entrada(ctx context.Context, usuarioID uuid.UUID) (*dto.CheckInResponse, error) {
	abierto, err := s.repo.FindAbierto(ctx, usuarioID)
	if err != nil {
		return nil, apierror.Store(err)
	}
	if abierto != nil {
		return nil, apierror.Conflict("Ya tienes un turno abierto")
	}

	ahora := time.Now()
	checkin := &model.CheckIn{
		UsuarioID: usuarioID,
		Entrada:   ahora,
		Fecha:     model.Dia(ahora),
	}
	if err := s.repo.Create(ctx, checkin); err != nil {
		return nil, apierror.Store(err)
	}

	resp := checkinToResponse(checkin)
	return &resp, nil
}

func (s *checkinService) Salida(ctx context.Context, usuarioID uuid.UUID) (*dto.CheckInResponse, error) {
	abierto, err := s.repo.FindAbierto(ctx, usuarioID)
	if err != nil {
		return nil, apierror.Store(err)
	}
	if abierto == nil {
		return nil, apierror.NotFound("No tienes un turno abierto para cerrar")
	}

	salida := time.Now()
	horas := salida.Sub(abierto.Entrada).Hours()
	abierto.Salida = &salida
	abierto.HorasTrabajadas = &horas

	if err := s.repo.Update(ctx, abierto); err != nil {
		return nil, apierror.Store(err)
	}

	resp := checkinToResponse(abierto)
	return &resp, nil
}

func (s *checkinService) MisCheckins(ctx context.Context, usuarioID uuid.UUID) ([]dto.CheckInResponse, error) {
	checkins, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, apierror.Store(err)
	}

	resp := make([]dto.CheckInResponse, 0, len(checkins))
	for _, ci := range checkins {
		resp = append(resp, checkinToResponse(&ci))
	}
	return resp, nil
}

func (s *checkinService) PorFecha(ctx context.Context, fecha string) ([]dto.AsistenciaItem, error) {
	dia, err := model.ParseFecha(fecha)
	if err != nil {
		return nil, apierror.Validation("Fecha inválida, se espera YYYY-MM-DD")
	}
	desde, hasta := model.VentanaDia(dia)

	checkins, err := s.repo.ListByFecha(ctx, desde, hasta)
	if err != nil {
		return nil, apierror.Store(err)
	}

	items := make([]dto.AsistenciaItem, 0, len(checkins))
	for _, ci := range checkins {
		item := dto.AsistenciaItem{CheckInResponse: checkinToResponse(&ci)}
		if ci.Usuario != nil {
			item.Nombre = ci.Usuario.Nombre
			item.Apellido = ci.Usuario.Apellido
			item.Rol = ci.Usuario.Rol
		}
		items = append(items, item)
	}
	return items, nil
}

func checkinToResponse(ci *model.CheckIn) dto.CheckInResponse {
	resp := dto.CheckInResponse{
		ID:              ci.ID.String(),
		UsuarioID:       ci.UsuarioID.String(),
		Entrada:         ci.Entrada.Format(time.RFC3339),
		HorasTrabajadas: ci.HorasTrabajadas,
		Fecha:           ci.Fecha.Format(model.FechaLayout),
	}
	if ci.Salida != nil {
		s := ci.Salida.Format(time.RFC3339)
		resp.Salida = &s
	}
	return resp
}
