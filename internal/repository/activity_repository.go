package repository

import (
	"context"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *model.TaskActivity) error
	ListByTask(ctx context.Context, taskID uint) ([]model.TaskActivity, error)
}

var _ ActivityRepositoryInterface = (*ActivityRepository)(nil)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity entry; entries are never updated afterwards
func (r *ActivityRepository) Create(ctx context.Context, activity *model.TaskActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByTask retrieves the full history of a task, most recent first
func (r *ActivityRepository) ListByTask(ctx context.Context, taskID uint) ([]model.TaskActivity, error) {
	var activities []model.TaskActivity
	result := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id DESC").
		Find(&activities)
	if result.Error != nil {
		return nil, result.Error
	}
	return activities, nil
}
