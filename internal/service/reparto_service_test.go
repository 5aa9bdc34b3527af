package service

// Tests for the distribution engine: proportional allocation by role-weighted
// hours, atomicity of a run, and the no-reprocessing guarantee.

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory RepartoRepository stub ─────────────────────────────────────────
// WithinTx stages writes and commits them only when fn returns nil, mirroring
// the rollback semantics of the real transaction.

type stubRepartoRepo struct {
	propinas map[uuid.UUID]*model.Propina
	checkins []model.CheckIn
	detalles []model.RepartoDetalle

	// failDetalleEn makes the Nth CrearDetalle call fail (1-based, 0 = never).
	failDetalleEn  int
	detalleCreates int
	// errFindDetalle simulates a store failure on FindDetalleByID.
	errFindDetalle error
}

func newStubRepartoRepo() *stubRepartoRepo {
	return &stubRepartoRepo{propinas: make(map[uuid.UUID]*model.Propina)}
}

type stubRepartoTx struct {
	repo       *stubRepartoRepo
	staged     []model.RepartoDetalle
	procesadas []uuid.UUID
}

func (r *stubRepartoRepo) WithinTx(_ context.Context, fn func(tx repository.RepartoTx) error) error {
	tx := &stubRepartoTx{repo: r}
	if err := fn(tx); err != nil {
		return err
	}
	r.detalles = append(r.detalles, tx.staged...)
	for _, id := range tx.procesadas {
		r.propinas[id].Procesada = true
	}
	return nil
}

func (t *stubRepartoTx) PropinasPendientes(desde, hasta time.Time) ([]model.Propina, error) {
	var result []model.Propina
	for _, p := range t.repo.propinas {
		if !p.Procesada && !p.Fecha.Before(desde) && p.Fecha.Before(hasta) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fecha.Before(result[j].Fecha) })
	return result, nil
}

func (t *stubRepartoTx) CheckInsCerrados(desde, hasta time.Time) ([]model.CheckIn, error) {
	var result []model.CheckIn
	for _, ci := range t.repo.checkins {
		if ci.Salida != nil && !ci.Fecha.Before(desde) && ci.Fecha.Before(hasta) {
			result = append(result, ci)
		}
	}
	return result, nil
}

func (t *stubRepartoTx) CrearDetalle(d *model.RepartoDetalle) error {
	t.repo.detalleCreates++
	if t.repo.failDetalleEn > 0 && t.repo.detalleCreates == t.repo.failDetalleEn {
		return errors.New("insert failed")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	t.staged = append(t.staged, *d)
	return nil
}

func (t *stubRepartoTx) MarcarProcesada(propinaID uuid.UUID) error {
	t.procesadas = append(t.procesadas, propinaID)
	return nil
}

func (r *stubRepartoRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.RepartoDetalle, error) {
	if r.errFindDetalle != nil {
		return nil, r.errFindDetalle
	}
	for i := range r.detalles {
		if r.detalles[i].ID == id {
			d := r.detalles[i]
			if p, ok := r.propinas[d.PropinaID]; ok {
				cloned := *p
				d.Propina = &cloned
			}
			return &d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepartoRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID, desde *time.Time) ([]model.RepartoDetalle, error) {
	var result []model.RepartoDetalle
	for _, d := range r.detalles {
		if d.UsuarioID != usuarioID {
			continue
		}
		if desde != nil && d.Fecha.Before(*desde) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (r *stubRepartoRepo) Historial(_ context.Context, desde, hasta *time.Time) ([]model.RepartoDetalle, error) {
	var result []model.RepartoDetalle
	for _, d := range r.detalles {
		if desde != nil && hasta != nil && (d.Fecha.Before(*desde) || !d.Fecha.Before(*hasta)) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (r *stubRepartoRepo) DetallesEnRango(_ context.Context, desde, hasta time.Time) ([]model.RepartoDetalle, error) {
	var result []model.RepartoDetalle
	for _, d := range r.detalles {
		if !d.Fecha.Before(desde) && d.Fecha.Before(hasta) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *stubRepartoRepo) PropinasProcesadasEnRango(_ context.Context, desde, hasta time.Time) ([]model.Propina, error) {
	var result []model.Propina
	for _, p := range r.propinas {
		if p.Procesada && !p.Fecha.Before(desde) && p.Fecha.Before(hasta) {
			result = append(result, *p)
		}
	}
	return result, nil
}

var _ repository.RepartoRepository = (*stubRepartoRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

const fechaTest = "2026-03-14"

func diaTest(t *testing.T) time.Time {
	t.Helper()
	dia, err := model.ParseFecha(fechaTest)
	require.NoError(t, err)
	return dia
}

func horasPtr(h float64) *float64 { return &h }

func usuarioConRol(rol string) *model.Usuario {
	return &model.Usuario{ID: uuid.New(), Nombre: "Test", Apellido: rol, Rol: rol, Activo: true}
}

func turnoCerrado(u *model.Usuario, horas float64, dia time.Time) model.CheckIn {
	entrada := dia.Add(10 * time.Hour)
	salida := entrada.Add(time.Duration(horas * float64(time.Hour)))
	return model.CheckIn{
		ID:              uuid.New(),
		UsuarioID:       u.ID,
		Entrada:         entrada,
		Salida:          &salida,
		HorasTrabajadas: horasPtr(horas),
		Fecha:           dia,
		Usuario:         u,
	}
}

func propinaPendiente(monto string, metodo string, dia time.Time) *model.Propina {
	return &model.Propina{
		ID:         uuid.New(),
		Monto:      decimal.RequireFromString(monto),
		MetodoPago: metodo,
		Fecha:      dia.Add(20 * time.Hour),
		Procesada:  false,
	}
}

// ── Calcular ─────────────────────────────────────────────────────────────────

func TestCalcularRepartoProporcionalPorPuntos(t *testing.T) {
	// Encargado 5h (x2 = 10 pts) y mozo 5h (x1 = 5 pts): el encargado
	// recibe 2/3 del pozo y el mozo 1/3.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	encargado := usuarioConRol(model.RolEncargado)
	mozo := usuarioConRol(model.RolMozo)
	repo.checkins = []model.CheckIn{
		turnoCerrado(encargado, 5, dia),
		turnoCerrado(mozo, 5, dia),
	}
	propina := propinaPendiente("300.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	resultado, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	assert.Equal(t, 1, resultado.PropinasProcesadas)
	assert.Equal(t, 2, resultado.RepartosGenerados)
	require.Len(t, repo.detalles, 2)

	montos := make(map[uuid.UUID]decimal.Decimal)
	for _, d := range repo.detalles {
		montos[d.UsuarioID] = d.MontoAsignado
	}
	assert.True(t, montos[encargado.ID].Equal(decimal.RequireFromString("200.00")),
		"encargado esperaba 200.00, recibió %s", montos[encargado.ID])
	assert.True(t, montos[mozo.ID].Equal(decimal.RequireFromString("100.00")),
		"mozo esperaba 100.00, recibió %s", montos[mozo.ID])

	assert.True(t, propina.Procesada, "la propina debe quedar procesada")
}

func TestCalcularGuardaSnapshotDeHorasYPuntos(t *testing.T) {
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	encargado := usuarioConRol(model.RolEncargado)
	repo.checkins = []model.CheckIn{turnoCerrado(encargado, 6, dia)}
	propina := propinaPendiente("90.00", "tarjeta", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	require.Len(t, repo.detalles, 1)
	d := repo.detalles[0]
	assert.Equal(t, encargado.ID, d.UsuarioID)
	assert.Equal(t, propina.ID, d.PropinaID)
	assert.Equal(t, 6.0, d.HorasTrabajadas)
	assert.Equal(t, 2, d.PuntosRol)
	assert.True(t, d.MontoAsignado.Equal(decimal.RequireFromString("90.00")))
}

func TestCalcularConservaElPozo(t *testing.T) {
	// Tres mozos con las mismas horas y un monto que no divide exacto:
	// cada redondeo es independiente, la deriva total queda bajo un
	// centavo por empleado.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	for i := 0; i < 3; i++ {
		repo.checkins = append(repo.checkins, turnoCerrado(usuarioConRol(model.RolMozo), 4, dia))
	}
	propina := propinaPendiente("100.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	suma := decimal.Zero
	for _, d := range repo.detalles {
		suma = suma.Add(d.MontoAsignado)
	}
	deriva := suma.Sub(propina.Monto).Abs()
	maxDeriva := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(3))
	assert.True(t, deriva.LessThanOrEqual(maxDeriva),
		"suma %s difiere del pozo %s en más de %s", suma, propina.Monto, maxDeriva)
}

func TestCalcularVariasPropinasMismoDia(t *testing.T) {
	// Dos propinas pendientes y dos empleados: una fila por par.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	repo.checkins = []model.CheckIn{
		turnoCerrado(usuarioConRol(model.RolEncargado), 8, dia),
		turnoCerrado(usuarioConRol(model.RolMozo), 8, dia),
	}
	p1 := propinaPendiente("50.00", "efectivo", dia)
	p2 := propinaPendiente("80.00", "tarjeta", dia)
	repo.propinas[p1.ID] = p1
	repo.propinas[p2.ID] = p2

	svc := NewRepartoService(repo, nil)
	resultado, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	assert.Equal(t, 2, resultado.PropinasProcesadas)
	assert.Equal(t, 4, resultado.RepartosGenerados)
	assert.True(t, p1.Procesada)
	assert.True(t, p2.Procesada)
}

func TestCalcularSumaTurnosDelMismoUsuario(t *testing.T) {
	// Turno partido: dos check-ins del mismo mozo suman sus horas en un
	// solo participante.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	mozo := usuarioConRol(model.RolMozo)
	otro := usuarioConRol(model.RolMozo)
	repo.checkins = []model.CheckIn{
		turnoCerrado(mozo, 3, dia),
		turnoCerrado(mozo, 3, dia),
		turnoCerrado(otro, 6, dia),
	}
	propina := propinaPendiente("120.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	resultado, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	// Dos participantes, no tres filas por la propina.
	assert.Equal(t, 2, resultado.RepartosGenerados)
	for _, d := range repo.detalles {
		assert.True(t, d.MontoAsignado.Equal(decimal.RequireFromString("60.00")),
			"mitades iguales esperadas, recibió %s", d.MontoAsignado)
		assert.Equal(t, 6.0, d.HorasTrabajadas)
	}
}

func TestCalcularNoReprocesaPropinas(t *testing.T) {
	// Segunda corrida del mismo día: las propinas ya procesadas no
	// vuelven a repartirse.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	repo.checkins = []model.CheckIn{turnoCerrado(usuarioConRol(model.RolMozo), 4, dia)}
	propina := propinaPendiente("40.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)
	detallesAntes := len(repo.detalles)

	_, err = svc.Calcular(context.Background(), fechaTest)
	require.Error(t, err)
	assert.Equal(t, "No hay propinas pendientes para esta fecha", err.Error())
	assert.Len(t, repo.detalles, detallesAntes, "una segunda corrida no debe crear filas")
}

func TestCalcularSinPropinasPendientes(t *testing.T) {
	repo := newStubRepartoRepo()
	dia := diaTest(t)
	repo.checkins = []model.CheckIn{turnoCerrado(usuarioConRol(model.RolMozo), 4, dia)}

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindConflict, apiErr.Kind)
	assert.Empty(t, repo.detalles)
}

func TestCalcularSinTurnosCerrados(t *testing.T) {
	repo := newStubRepartoRepo()
	dia := diaTest(t)
	propina := propinaPendiente("50.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	// Un turno abierto no cuenta.
	mozo := usuarioConRol(model.RolMozo)
	repo.checkins = []model.CheckIn{{
		ID: uuid.New(), UsuarioID: mozo.ID, Entrada: dia.Add(10 * time.Hour),
		Fecha: dia, Usuario: mozo,
	}}

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.Error(t, err)
	assert.Equal(t, "No hay turnos cerrados (check-ins) para repartir en esta fecha", err.Error())
	assert.False(t, propina.Procesada)
}

func TestCalcularTotalPuntosCero(t *testing.T) {
	// Turnos cerrados con cero horas: nada para ponderar, la corrida
	// falla sin escrituras.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	repo.checkins = []model.CheckIn{turnoCerrado(usuarioConRol(model.RolMozo), 0, dia)}
	propina := propinaPendiente("50.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindConflict, apiErr.Kind)
	assert.Empty(t, repo.detalles)
	assert.False(t, propina.Procesada)
}

func TestCalcularAbortaSinEscriturasParciales(t *testing.T) {
	// Si una inserción falla a mitad de la corrida, la transacción
	// descarta todo: ni filas de reparto ni propinas marcadas.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	repo.checkins = []model.CheckIn{
		turnoCerrado(usuarioConRol(model.RolMozo), 4, dia),
		turnoCerrado(usuarioConRol(model.RolMozo), 4, dia),
	}
	propina := propinaPendiente("100.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina
	repo.failDetalleEn = 2

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.Error(t, err)

	assert.Empty(t, repo.detalles, "ninguna fila debe sobrevivir al abort")
	assert.False(t, propina.Procesada, "la propina debe seguir pendiente")
}

func TestCalcularFechaInvalida(t *testing.T) {
	svc := NewRepartoService(newStubRepartoRepo(), nil)

	for _, fecha := range []string{"", "14-03-2026", "no-es-fecha"} {
		_, err := svc.Calcular(context.Background(), fecha)
		require.Error(t, err, "fecha %q", fecha)

		var apiErr *apierror.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	}
}

func TestCalcularIgnoraPropinasDeOtroDia(t *testing.T) {
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	repo.checkins = []model.CheckIn{turnoCerrado(usuarioConRol(model.RolMozo), 4, dia)}
	ayer := propinaPendiente("70.00", "efectivo", dia.AddDate(0, 0, -1))
	hoy := propinaPendiente("30.00", "efectivo", dia)
	repo.propinas[ayer.ID] = ayer
	repo.propinas[hoy.ID] = hoy

	svc := NewRepartoService(repo, nil)
	resultado, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	assert.Equal(t, 1, resultado.PropinasProcesadas)
	assert.False(t, ayer.Procesada, "la propina de otro día queda intacta")
	assert.True(t, hoy.Procesada)
}

// ── Detalle ──────────────────────────────────────────────────────────────────

func TestDetalleReconstruyeResumenDelDia(t *testing.T) {
	// El resumen se recalcula desde las filas inmutables: pozo, cantidad
	// de empleados, puntos totales y desglose por método de pago.
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	encargado := usuarioConRol(model.RolEncargado)
	mozo := usuarioConRol(model.RolMozo)
	repo.checkins = []model.CheckIn{
		turnoCerrado(encargado, 5, dia),
		turnoCerrado(mozo, 5, dia),
	}
	efectivo := propinaPendiente("300.00", "efectivo", dia)
	tarjeta := propinaPendiente("150.00", "tarjeta", dia)
	repo.propinas[efectivo.ID] = efectivo
	repo.propinas[tarjeta.ID] = tarjeta

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)
	require.NotEmpty(t, repo.detalles)

	resp, err := svc.Detalle(context.Background(), repo.detalles[0].ID)
	require.NoError(t, err)

	assert.True(t, resp.PozoTotal.Equal(decimal.RequireFromString("450.00")),
		"pozo esperado 450.00, recibió %s", resp.PozoTotal)
	assert.Equal(t, 2, resp.NumeroEmpleados)
	assert.Equal(t, 15.0, resp.TotalPuntos)
	assert.True(t, resp.DesglosePropinas["efectivo"].Equal(decimal.RequireFromString("300.00")))
	assert.True(t, resp.DesglosePropinas["tarjeta"].Equal(decimal.RequireFromString("150.00")))
	require.NotNil(t, resp.Propina, "la propina de origen viaja embebida")
}

func TestDetalleNoEncontrado(t *testing.T) {
	svc := NewRepartoService(newStubRepartoRepo(), nil)

	_, err := svc.Detalle(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindNotFound, apiErr.Kind)
}

func TestDetalleFallaDeAlmacenamiento(t *testing.T) {
	// Una caída del store no es un 404: el cliente puede reintentar.
	repo := newStubRepartoRepo()
	repo.errFindDetalle = errors.New("connection refused")
	svc := NewRepartoService(repo, nil)

	_, err := svc.Detalle(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindStore, apiErr.Kind)
}

// ── MisRepartos ──────────────────────────────────────────────────────────────

func TestMisRepartosFiltraPorUsuario(t *testing.T) {
	repo := newStubRepartoRepo()
	dia := diaTest(t)

	encargado := usuarioConRol(model.RolEncargado)
	mozo := usuarioConRol(model.RolMozo)
	repo.checkins = []model.CheckIn{
		turnoCerrado(encargado, 5, dia),
		turnoCerrado(mozo, 5, dia),
	}
	propina := propinaPendiente("300.00", "efectivo", dia)
	repo.propinas[propina.ID] = propina

	svc := NewRepartoService(repo, nil)
	_, err := svc.Calcular(context.Background(), fechaTest)
	require.NoError(t, err)

	mios, err := svc.MisRepartos(context.Background(), mozo.ID, "")
	require.NoError(t, err)
	require.Len(t, mios, 1)
	assert.Equal(t, mozo.ID.String(), mios[0].UsuarioID)

	ajenos, err := svc.MisRepartos(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, ajenos)
}
