package vision

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, v *Vision) error
	FindAllByUserID(ctx context.Context, userID string) ([]Vision, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Vision, error)
	Update(ctx context.Context, v *Vision) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *Vision) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindAllByUserID(ctx context.Context, userID string) ([]Vision, error) {
	var visions []Vision
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&visions).Error; err != nil {
		return nil, err
	}
	return visions, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Vision, error) {
	var v Vision
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) Update(ctx context.Context, v *Vision) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Vision{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
