package repository

import (
	"context"
	"database/sql"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type TaskAssignmentRepository interface {
	// Create inserts the assignment unless one already exists for the same
	// (task, user, day); a duplicate is silently ignored so the daily
	// materialization job can be re-run safely.
	Create(ctx context.Context, assignment *entity.TaskAssignment) error
	GetByID(ctx context.Context, id string) (*entity.TaskAssignment, error)
	GetListByUserDay(ctx context.Context, userID, day string) ([]entity.TaskAssignment, error)
	CountAssigned(ctx context.Context, userID, day string) (int64, error)
	UpdateStatus(ctx context.Context, id string, status entity.TaskAssignmentStatus, completedAt sql.NullTime) error
	SetFocusStart(ctx context.Context, id string, at sql.NullTime) error
}

type taskAssignmentRepository struct{}

func NewTaskAssignmentRepository() *taskAssignmentRepository {
	return &taskAssignmentRepository{}
}

func (r *taskAssignmentRepository) Create(ctx context.Context, assignment *entity.TaskAssignment) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(assignment).Error
}

func (r *taskAssignmentRepository) GetByID(ctx context.Context, id string) (*entity.TaskAssignment, error) {
	var result entity.TaskAssignment
	err := xcontext.DB(ctx).Preload("Task").Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskAssignmentRepository) GetListByUserDay(
	ctx context.Context, userID, day string,
) ([]entity.TaskAssignment, error) {
	var result []entity.TaskAssignment
	err := xcontext.DB(ctx).
		Preload("Task").
		Where("user_id=? AND day=?", userID, day).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskAssignmentRepository) CountAssigned(ctx context.Context, userID, day string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.TaskAssignment{}).
		Where("user_id=? AND day=? AND status=?", userID, day, entity.AssignmentAssigned).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *taskAssignmentRepository) UpdateStatus(
	ctx context.Context, id string, status entity.TaskAssignmentStatus, completedAt sql.NullTime,
) error {
	return xcontext.DB(ctx).
		Model(&entity.TaskAssignment{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":       status,
			"completed_at": completedAt,
		}).Error
}

func (r *taskAssignmentRepository) SetFocusStart(ctx context.Context, id string, at sql.NullTime) error {
	return xcontext.DB(ctx).
		Model(&entity.TaskAssignment{}).
		Where("id=?", id).
		Update("focus_start_at", at).Error
}
