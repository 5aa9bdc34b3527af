package service

import (
	"context"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"
)

type PropinaService interface {
	Registrar(ctx context.Context, req dto.RegistrarPropinaRequest) (*dto.PropinaResponse, error)
	Listar(ctx context.Context, query dto.ListarPropinasQuery) ([]dto.PropinaResponse, error)
	Pendientes(ctx context.Context) ([]dto.PropinaResponse, error)
}

type propinaService struct {
	repo repository.PropinaRepository
}

func NewPropinaService(repo repository.PropinaRepository) PropinaService {
	return &propinaService{repo: repo}
}

func (s *propinaService) Registrar(ctx context.Context, req dto.RegistrarPropinaRequest) (*dto.PropinaResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("El monto debe ser mayor a 0")
	}

	ahora := time.Now()
	propina := &model.Propina{
		Monto:      req.Monto,
		MetodoPago: req.MetodoPago,
		Fecha:      ahora,
		Procesada:  false,
	}
	if err := s.repo.Create(ctx, propina); err != nil {
		return nil, apierror.Store(err)
	}

	resp := propinaToResponse(propina)
	return &resp, nil
}

func (s *propinaService) Listar(ctx context.Context, query dto.ListarPropinasQuery) ([]dto.PropinaResponse, error) {
	var filter repository.PropinaFilter
	if query.Fecha != "" {
		dia, err := model.ParseFecha(query.Fecha)
		if err != nil {
			return nil, apierror.Validation("Fecha inválida, se espera YYYY-MM-DD")
		}
		desde, hasta := model.VentanaDia(dia)
		filter.Desde, filter.Hasta = &desde, &hasta
	}
	if query.Procesada != "" {
		procesada := query.Procesada == "true"
		filter.Procesada = &procesada
	}

	propinas, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err)
	}
	return propinasToResponse(propinas), nil
}

func (s *propinaService) Pendientes(ctx context.Context) ([]dto.PropinaResponse, error) {
	propinas, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, apierror.Store(err)
	}
	return propinasToResponse(propinas), nil
}

func propinaToResponse(p *model.Propina) dto.PropinaResponse {
	return dto.PropinaResponse{
		ID:         p.ID.String(),
		Monto:      p.Monto,
		MetodoPago: p.MetodoPago,
		Fecha:      p.Fecha.Format(time.RFC3339),
		Procesada:  p.Procesada,
	}
}

func propinasToResponse(propinas []model.Propina) []dto.PropinaResponse {
	resp := make([]dto.PropinaResponse, 0, len(propinas))
	for _, p := range propinas {
		resp = append(resp, propinaToResponse(&p))
	}
	return resp
}
