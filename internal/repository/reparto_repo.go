package repository

import (
	"context"
	"time"

	"tippool/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepartoTx is the operation set available to a distribution run while its
// transaction is open. The pending-tips read and the processed-flag update
// happen inside the same transaction, so two concurrent runs over the same
// date cannot both allocate a propina — the store must provide row-level
// protection for rows read-then-updated within one transaction.
type RepartoTx interface {
	PropinasPendientes(desde, hasta time.Time) ([]model.Propina, error)
	// CheckInsCerrados returns the window's closed shifts with owners preloaded.
	CheckInsCerrados(desde, hasta time.Time) ([]model.CheckIn, error)
	CrearDetalle(d *model.RepartoDetalle) error
	MarcarProcesada(propinaID uuid.UUID) error
}

type RepartoRepository interface {
	// WithinTx runs fn inside one atomic transaction; any error rolls back
	// every write fn performed.
	WithinTx(ctx context.Context, fn func(tx RepartoTx) error) error

	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.RepartoDetalle, error)
	// ListByUsuario returns one user's entries (source propina embedded),
	// newest first, optionally from a date onward.
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID, desde *time.Time) ([]model.RepartoDetalle, error)
	// Historial returns all entries with user and propina embedded, newest
	// first, optionally restricted to one day's window.
	Historial(ctx context.Context, desde, hasta *time.Time) ([]model.RepartoDetalle, error)
	DetallesEnRango(ctx context.Context, desde, hasta time.Time) ([]model.RepartoDetalle, error)
	PropinasProcesadasEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Propina, error)
}

type repartoRepo struct{ db *gorm.DB }

func NewRepartoRepository(db *gorm.DB) RepartoRepository { return &repartoRepo{db: db} }

type repartoTx struct{ db *gorm.DB }

func (r *repartoRepo) WithinTx(ctx context.Context, fn func(tx RepartoTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repartoTx{db: tx})
	})
}

func (t *repartoTx) PropinasPendientes(desde, hasta time.Time) ([]model.Propina, error) {
	var propinas []model.Propina
	err := t.db.
		Where("fecha >= ? AND fecha < ? AND procesada = false", desde, hasta).
		Order("fecha ASC").
		Find(&propinas).Error
	return propinas, err
}

func (t *repartoTx) CheckInsCerrados(desde, hasta time.Time) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	err := t.db.
		Preload("Usuario").
		Where("fecha >= ? AND fecha < ? AND salida IS NOT NULL", desde, hasta).
		Find(&checkins).Error
	return checkins, err
}

func (t *repartoTx) CrearDetalle(d *model.RepartoDetalle) error {
	return t.db.Create(d).Error
}

func (t *repartoTx) MarcarProcesada(propinaID uuid.UUID) error {
	return t.db.Model(&model.Propina{}).Where("id = ?", propinaID).Update("procesada", true).Error
}

func (r *repartoRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.RepartoDetalle, error) {
	var d model.RepartoDetalle
	err := r.db.WithContext(ctx).Preload("Propina").First(&d, id).Error
	return &d, err
}

func (r *repartoRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, desde *time.Time) ([]model.RepartoDetalle, error) {
	q := r.db.WithContext(ctx).Preload("Propina").Where("usuario_id = ?", usuarioID)
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}

	var detalles []model.RepartoDetalle
	err := q.Order("fecha DESC").Find(&detalles).Error
	return detalles, err
}

func (r *repartoRepo) Historial(ctx context.Context, desde, hasta *time.Time) ([]model.RepartoDetalle, error) {
	q := r.db.WithContext(ctx).Preload("Usuario").Preload("Propina")
	if desde != nil && hasta != nil {
		q = q.Where("fecha >= ? AND fecha < ?", *desde, *hasta)
	}

	var detalles []model.RepartoDetalle
	err := q.Order("fecha DESC").Find(&detalles).Error
	return detalles, err
}

func (r *repartoRepo) DetallesEnRango(ctx context.Context, desde, hasta time.Time) ([]model.RepartoDetalle, error) {
	var detalles []model.RepartoDetalle
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Find(&detalles).Error
	return detalles, err
}

func (r *repartoRepo) PropinasProcesadasEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Propina, error) {
	var propinas []model.Propina
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha < ? AND procesada = true", desde, hasta).
		Find(&propinas).Error
	return propinas, err
}
