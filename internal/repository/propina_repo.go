package repository

import (
	"context"
	"time"

	"tippool/internal/model"

	"gorm.io/gorm"
)

// PropinaFilter narrows Listar. Nil fields are ignored.
type PropinaFilter struct {
	Desde     *time.Time
	Hasta     *time.Time
	Procesada *bool
}

type PropinaRepository interface {
	Create(ctx context.Context, p *model.Propina) error
	List(ctx context.Context, filter PropinaFilter) ([]model.Propina, error)
	// ListPendientes returns unprocessed propinas oldest-first — the order
	// the engine allocates them in.
	ListPendientes(ctx context.Context) ([]model.Propina, error)
}

type propinaRepo struct{ db *gorm.DB }

func NewPropinaRepository(db *gorm.DB) PropinaRepository { return &propinaRepo{db: db} }

func (r *propinaRepo) Create(ctx context.Context, p *model.Propina) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propinaRepo) List(ctx context.Context, filter PropinaFilter) ([]model.Propina, error) {
	q := r.db.WithContext(ctx).Model(&model.Propina{})
	if filter.Desde != nil && filter.Hasta != nil {
		q = q.Where("fecha >= ? AND fecha < ?", *filter.Desde, *filter.Hasta)
	}
	if filter.Procesada != nil {
		q = q.Where("procesada = ?", *filter.Procesada)
	}

	var propinas []model.Propina
	err := q.Order("fecha DESC").Find(&propinas).Error
	return propinas, err
}

func (r *propinaRepo) ListPendientes(ctx context.Context) ([]model.Propina, error) {
	var propinas []model.Propina
	err := r.db.WithContext(ctx).
		Where("procesada = false").
		Order("fecha ASC").
		Find(&propinas).Error
	return propinas, err
}
