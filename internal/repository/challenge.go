package repository

import (
	"context"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.WeeklyChallenge) error
	GetByID(ctx context.Context, id string) (*entity.WeeklyChallenge, error)
	// GetCurrent returns the most recently created challenge whose window
	// contains now.
	GetCurrent(ctx context.Context, now time.Time) (*entity.WeeklyChallenge, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.WeeklyChallenge, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *entity.WeeklyChallenge) error {
	return xcontext.DB(ctx).Create(challenge).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.WeeklyChallenge, error) {
	var result entity.WeeklyChallenge
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetCurrent(ctx context.Context, now time.Time) (*entity.WeeklyChallenge, error) {
	var result entity.WeeklyChallenge
	err := xcontext.DB(ctx).
		Where("start_date <= ? AND due_date >= ?", now, now).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetList(ctx context.Context, offset, limit int) ([]entity.WeeklyChallenge, error) {
	var result []entity.WeeklyChallenge
	err := xcontext.DB(ctx).
		Order("start_date DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
