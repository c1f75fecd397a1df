package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	GetActiveList(ctx context.Context) ([]entity.Task, error)
	UpdateByID(ctx context.Context, id string, data *entity.Task) error
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	return xcontext.DB(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	var result entity.Task
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskRepository) GetActiveList(ctx context.Context) ([]entity.Task, error) {
	var result []entity.Task
	err := xcontext.DB(ctx).
		Where("status=?", entity.TaskActive).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskRepository) UpdateByID(ctx context.Context, id string, data *entity.Task) error {
	return xcontext.DB(ctx).
		Model(&entity.Task{}).
		Where("id=?", id).
		Updates(data).Error
}
