package reminder

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	FindByOwner(ctx context.Context, owner string) ([]Reminder, error)
	FindByVision(ctx context.Context, visionID string) ([]Reminder, error)
	DeleteByVision(ctx context.Context, visionID string) error
	DeleteByOwner(ctx context.Context, owner string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rem *Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *repository) FindByOwner(ctx context.Context, owner string) ([]Reminder, error) {
	var out []Reminder
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindByVision(ctx context.Context, visionID string) ([]Reminder, error) {
	var out []Reminder
	if err := r.db.WithContext(ctx).Where("vision_id = ?", visionID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) DeleteByVision(ctx context.Context, visionID string) error {
	return r.db.WithContext(ctx).Delete(&Reminder{}, "vision_id = ?", visionID).Error
}

func (r *repository) DeleteByOwner(ctx context.Context, owner string) error {
	return r.db.WithContext(ctx).Delete(&Reminder{}, "owner = ?", owner).Error
}
