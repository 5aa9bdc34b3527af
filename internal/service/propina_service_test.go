package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory PropinaRepository stub ─────────────────────────────────────────

type stubPropinaRepo struct {
	propinas []model.Propina
}

func (r *stubPropinaRepo) Create(_ context.Context, p *model.Propina) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.propinas = append(r.propinas, *p)
	return nil
}

func (r *stubPropinaRepo) List(_ context.Context, filter repository.PropinaFilter) ([]model.Propina, error) {
	var result []model.Propina
	for _, p := range r.propinas {
		if filter.Desde != nil && filter.Hasta != nil &&
			(p.Fecha.Before(*filter.Desde) || !p.Fecha.Before(*filter.Hasta)) {
			continue
		}
		if filter.Procesada != nil && p.Procesada != *filter.Procesada {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *stubPropinaRepo) ListPendientes(_ context.Context) ([]model.Propina, error) {
	var result []model.Propina
	for _, p := range r.propinas {
		if !p.Procesada {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fecha.Before(result[j].Fecha) })
	return result, nil
}

var _ repository.PropinaRepository = (*stubPropinaRepo)(nil)

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRegistrarPropina(t *testing.T) {
	repo := &stubPropinaRepo{}
	svc := NewPropinaService(repo)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarPropinaRequest{
		Monto:      decimal.RequireFromString("150.50"),
		MetodoPago: "efectivo",
	})
	require.NoError(t, err)

	assert.True(t, resp.Monto.Equal(decimal.RequireFromString("150.50")))
	assert.Equal(t, "efectivo", resp.MetodoPago)
	assert.False(t, resp.Procesada, "toda propina nace pendiente")
	require.Len(t, repo.propinas, 1)
}

func TestRegistrarMontoInvalido(t *testing.T) {
	svc := NewPropinaService(&stubPropinaRepo{})

	for _, monto := range []string{"0", "-10.00"} {
		_, err := svc.Registrar(context.Background(), dto.RegistrarPropinaRequest{
			Monto:      decimal.RequireFromString(monto),
			MetodoPago: "efectivo",
		})
		require.Error(t, err, "monto %s", monto)
		assert.Equal(t, "El monto debe ser mayor a 0", err.Error())

		var apiErr *apierror.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	}
}

func TestPendientesExcluyeProcesadasYOrdenaAscendente(t *testing.T) {
	repo := &stubPropinaRepo{}
	ahora := time.Now()
	repo.propinas = []model.Propina{
		{ID: uuid.New(), Monto: decimal.NewFromInt(30), MetodoPago: "efectivo", Fecha: ahora, Procesada: false},
		{ID: uuid.New(), Monto: decimal.NewFromInt(10), MetodoPago: "tarjeta", Fecha: ahora.Add(-2 * time.Hour), Procesada: false},
		{ID: uuid.New(), Monto: decimal.NewFromInt(99), MetodoPago: "efectivo", Fecha: ahora.Add(-time.Hour), Procesada: true},
	}

	svc := NewPropinaService(repo)
	pendientes, err := svc.Pendientes(context.Background())
	require.NoError(t, err)

	require.Len(t, pendientes, 2)
	assert.True(t, pendientes[0].Monto.Equal(decimal.NewFromInt(10)), "la más vieja primero")
	assert.True(t, pendientes[1].Monto.Equal(decimal.NewFromInt(30)))
}

func TestListarFiltraPorProcesada(t *testing.T) {
	repo := &stubPropinaRepo{}
	ahora := time.Now()
	repo.propinas = []model.Propina{
		{ID: uuid.New(), Monto: decimal.NewFromInt(20), MetodoPago: "efectivo", Fecha: ahora, Procesada: true},
		{ID: uuid.New(), Monto: decimal.NewFromInt(40), MetodoPago: "efectivo", Fecha: ahora, Procesada: false},
	}

	svc := NewPropinaService(repo)

	procesadas, err := svc.Listar(context.Background(), dto.ListarPropinasQuery{Procesada: "true"})
	require.NoError(t, err)
	require.Len(t, procesadas, 1)
	assert.True(t, procesadas[0].Procesada)

	todas, err := svc.Listar(context.Background(), dto.ListarPropinasQuery{})
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestListarFechaInvalida(t *testing.T) {
	svc := NewPropinaService(&stubPropinaRepo{})

	_, err := svc.Listar(context.Background(), dto.ListarPropinasQuery{Fecha: "hoy"})
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
}
