package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeParticipantRepository interface {
	Create(ctx context.Context, participant *entity.ChallengeParticipant) error
	Get(ctx context.Context, challengeID, userID string) (*entity.ChallengeParticipant, error)
	GetListByChallengeID(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	SetProgress(ctx context.Context, challengeID, userID string, progress int) error
	IncreaseStreak(ctx context.Context, challengeID, userID string) error
}

type challengeParticipantRepository struct{}

func NewChallengeParticipantRepository() *challengeParticipantRepository {
	return &challengeParticipantRepository{}
}

func (r *challengeParticipantRepository) Create(
	ctx context.Context, participant *entity.ChallengeParticipant,
) error {
	return xcontext.DB(ctx).Create(participant).Error
}

func (r *challengeParticipantRepository) Get(
	ctx context.Context, challengeID, userID string,
) (*entity.ChallengeParticipant, error) {
	var result entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeParticipantRepository) GetListByChallengeID(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Preload("User").
		Where("challenge_id=?", challengeID).
		Order("progress DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeParticipantRepository) SetProgress(
	ctx context.Context, challengeID, userID string, progress int,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Update("progress", progress)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *challengeParticipantRepository) IncreaseStreak(ctx context.Context, challengeID, userID string) error {
	return xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Update("streak", gorm.Expr("streak+1")).Error
}
