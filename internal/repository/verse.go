package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserVerseRewardRepository interface {
	Create(ctx context.Context, reward *entity.UserVerseReward) error
	GetGrantedIDs(ctx context.Context, userID string) ([]string, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserVerseReward, error)
}

type userVerseRewardRepository struct{}

func NewUserVerseRewardRepository() *userVerseRewardRepository {
	return &userVerseRewardRepository{}
}

func (r *userVerseRewardRepository) Create(ctx context.Context, reward *entity.UserVerseReward) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "verse_id"}},
			DoNothing: true,
		}).
		Create(reward).Error
}

func (r *userVerseRewardRepository) GetGrantedIDs(ctx context.Context, userID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.UserVerseReward{}).
		Where("user_id=?", userID).
		Pluck("verse_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userVerseRewardRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.UserVerseReward, error) {
	var result []entity.UserVerseReward
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
