package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PrayerRequestRepository interface {
	Create(ctx context.Context, request *entity.PrayerRequest) error
	GetByID(ctx context.Context, id string) (*entity.PrayerRequest, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.PrayerRequest, error)
	IncreasePrayCount(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
}

type prayerRequestRepository struct{}

func NewPrayerRequestRepository() *prayerRequestRepository {
	return &prayerRequestRepository{}
}

func (r *prayerRequestRepository) Create(ctx context.Context, request *entity.PrayerRequest) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *prayerRequestRepository) GetByID(ctx context.Context, id string) (*entity.PrayerRequest, error) {
	var result entity.PrayerRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prayerRequestRepository) GetList(ctx context.Context, offset, limit int) ([]entity.PrayerRequest, error) {
	var result []entity.PrayerRequest
	err := xcontext.DB(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// IncreasePrayCount bumps the counter in a single statement. Clients never
// write the count directly, so concurrent prayers cannot lose updates.
func (r *prayerRequestRepository) IncreasePrayCount(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PrayerRequest{}).
		Where("id=?", id).
		Update("pray_count", gorm.Expr("pray_count+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *prayerRequestRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.PrayerRequest{}, "id=?", id).Error
}
