package repository

import (
	"context"
	"errors"
	"time"

	"tippool/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckInRepository interface {
	Create(ctx context.Context, ci *model.CheckIn) error
	// FindAbierto returns the user's open shift, or (nil, nil) when none exists.
	FindAbierto(ctx context.Context, usuarioID uuid.UUID) (*model.CheckIn, error)
	Update(ctx context.Context, ci *model.CheckIn) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.CheckIn, error)
	// ListByFecha returns all shifts (open or closed) anchored to the window,
	// with the owning user preloaded for display.
	ListByFecha(ctx context.Context, desde, hasta time.Time) ([]model.CheckIn, error)
}

type checkinRepo struct{ db *gorm.DB }

func NewCheckInRepository(db *gorm.DB) CheckInRepository { return &checkinRepo{db: db} }

func (r *checkinRepo) Create(ctx context.Context, ci *model.CheckIn) error {
	return r.db.WithContext(ctx).Create(ci).Error
}

func (r *checkinRepo) FindAbierto(ctx context.Context, usuarioID uuid.UUID) (*model.CheckIn, error) {
	var ci model.CheckIn
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND salida IS NULL", usuarioID).
		First(&ci).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

func (r *checkinRepo) Update(ctx context.Context, ci *model.CheckIn) error {
	return r.db.WithContext(ctx).Save(ci).Error
}

func (r *checkinRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("entrada DESC").
		Find(&checkins).Error
	return checkins, err
}

func (r *checkinRepo) ListByFecha(ctx context.Context, desde, hasta time.Time) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Order("entrada ASC").
		Find(&checkins).Error
	return checkins, err
}
