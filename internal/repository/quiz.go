package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *entity.Quiz) error
	GetByID(ctx context.Context, id string) (*entity.Quiz, error)
	GetByChallengeID(ctx context.Context, challengeID string) (*entity.Quiz, error)
	CreateQuestions(ctx context.Context, questions []*entity.QuizQuestion) error
	GetQuestions(ctx context.Context, quizID string) ([]entity.QuizQuestion, error)
}

type quizRepository struct{}

func NewQuizRepository() *quizRepository {
	return &quizRepository{}
}

func (r *quizRepository) Create(ctx context.Context, quiz *entity.Quiz) error {
	return xcontext.DB(ctx).Create(quiz).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id string) (*entity.Quiz, error) {
	var result entity.Quiz
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *quizRepository) GetByChallengeID(ctx context.Context, challengeID string) (*entity.Quiz, error) {
	var result entity.Quiz
	err := xcontext.DB(ctx).Take(&result, "challenge_id=?", challengeID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *quizRepository) CreateQuestions(ctx context.Context, questions []*entity.QuizQuestion) error {
	return xcontext.DB(ctx).Create(questions).Error
}

func (r *quizRepository) GetQuestions(ctx context.Context, quizID string) ([]entity.QuizQuestion, error) {
	var result []entity.QuizQuestion
	err := xcontext.DB(ctx).
		Where("quiz_id=?", quizID).
		Order("`index` ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

type QuizAttemptRepository interface {
	// Upsert stores the attempt keyed by (quiz, user); a retake overwrites
	// the previous score and passed flag instead of appending a new record.
	Upsert(ctx context.Context, attempt *entity.QuizAttempt) error
	Get(ctx context.Context, quizID, userID string) (*entity.QuizAttempt, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.QuizAttempt, error)
}

type quizAttemptRepository struct{}

func NewQuizAttemptRepository() *quizAttemptRepository {
	return &quizAttemptRepository{}
}

func (r *quizAttemptRepository) Upsert(ctx context.Context, attempt *entity.QuizAttempt) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "passed", "updated_at"}),
		}).
		Create(attempt).Error
}

func (r *quizAttemptRepository) Get(ctx context.Context, quizID, userID string) (*entity.QuizAttempt, error) {
	var result entity.QuizAttempt
	err := xcontext.DB(ctx).
		Where("quiz_id=? AND user_id=?", quizID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *quizAttemptRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.QuizAttempt, error) {
	var result []entity.QuizAttempt
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("updated_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
