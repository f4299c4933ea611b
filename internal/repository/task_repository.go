package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// TaskListFilter scopes task queries to a single owner unless AdminScope is set.
type TaskListFilter struct {
	OwnerID    uint
	AdminScope bool
	Stage      string
	IsTrashed  bool
	Search     string
}

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	FindDuplicate(ctx context.Context, ownerID uint, title, description string, date time.Time) (*model.Task, error)
	List(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	ArchiveCompleted(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uint) error
	DeleteTrashed(ctx context.Context, ownerID uint) error
	Restore(ctx context.Context, id uint) error
	RestoreTrashed(ctx context.Context, ownerID uint) error
	DueOn(ctx context.Context, day time.Time) ([]model.Task, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// FindDuplicate looks for a non-trashed task of the same owner with the same
// normalized title, description and due date. Returns (nil, nil) when none exists.
func (r *TaskRepository) FindDuplicate(ctx context.Context, ownerID uint, title, description string, date time.Time) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_trashed = ? AND title = ? AND description = ? AND date = ?",
			ownerID, false, title, description, date).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter, most recent first
func (r *TaskRepository) List(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_trashed = ?", filter.IsTrashed)

	if !filter.AdminScope {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR stage ILIKE ? OR priority ILIKE ?)", like, like, like)
	}

	var tasks []model.Task
	result := query.Order("id DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Save updates an existing task
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ArchiveCompleted copies the task into the completed-tasks archive and removes
// it from the active table, together with its activity history. Both statements
// run in one transaction so a partial archive can never be observed.
func (r *TaskRepository) ArchiveCompleted(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		archived := &model.ArchivedTask{
			TaskID:      task.ID,
			Title:       task.Title,
			Description: task.Description,
			Date:        task.Date,
			Priority:    task.Priority,
			Stage:       task.Stage,
			IsTrashed:   true,
			UserID:      task.UserID,
		}
		if err := tx.Create(archived).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.TaskActivity{}, "task_id = ?", task.ID).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Task{}, "id = ?", task.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// Delete removes a task by its ID; its activities are removed by the FK cascade
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTrashed removes every trashed task of the owner
func (r *TaskRepository) DeleteTrashed(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).
		Delete(&model.Task{}, "is_trashed = ? AND user_id = ?", true, ownerID).Error
}

// Restore returns a trashed task to the active set
func (r *TaskRepository) Restore(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("is_trashed", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// RestoreTrashed returns every trashed task of the owner to the active set
func (r *TaskRepository) RestoreTrashed(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_trashed = ? AND user_id = ?", true, ownerID).
		Update("is_trashed", false).Error
}

// DueOn retrieves active, not completed tasks due on the given calendar day,
// with their owners preloaded for mail delivery
func (r *TaskRepository) DueOn(ctx context.Context, day time.Time) ([]model.Task, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_trashed = ? AND stage <> ? AND date >= ? AND date < ?",
			false, model.StageCompleted, from, to).
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}
