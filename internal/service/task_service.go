package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// Действия, принимаемые операцией DeleteOrRestore
const (
	ActionDelete     = "delete"
	ActionDeleteAll  = "deleteAll"
	ActionRestore    = "restore"
	ActionRestoreAll = "restoreAll"
)

type CreateTaskParams struct {
	Title       string
	Description string
	Date        time.Time
	Priority    string
	Stage       string
}

// UpdateTaskParams carries a partial update; nil fields stay unchanged
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Date        *time.Time
	Priority    *string
	Stage       *string
}

type TaskService struct {
	tasks      repository.TaskRepositoryInterface
	activities repository.ActivityRepositoryInterface
	notices    repository.NoticeRepositoryInterface
	users      repository.UserRepositoryInterface
}

func NewTaskService(
	tasks repository.TaskRepositoryInterface,
	activities repository.ActivityRepositoryInterface,
	notices repository.NoticeRepositoryInterface,
	users repository.UserRepositoryInterface,
) *TaskService {
	return &TaskService{
		tasks:      tasks,
		activities: activities,
		notices:    notices,
		users:      users,
	}
}

// Create validates and persists a new task for the owner. Title, due date,
// priority and stage are required; title and description are trimmed and
// lower-cased before storage and before the duplicate comparison. A matching
// non-trashed (title, description, due date) tuple of the same owner is a
// reported conflict, not a silent no-op.
func (s *TaskService) Create(ctx context.Context, ownerID uint, p CreateTaskParams) (*model.Task, error) {
	title := normalizeText(p.Title)
	description := normalizeText(p.Description)
	priority := normalizeText(p.Priority)
	stage := normalizeText(p.Stage)

	if title == "" {
		return nil, &ValidationError{Message: "title is required"}
	}
	if p.Date.IsZero() {
		return nil, &ValidationError{Message: "due date is required"}
	}
	if priority == "" {
		return nil, &ValidationError{Message: "priority is required"}
	}
	if stage == "" {
		return nil, &ValidationError{Message: "stage is required"}
	}
	if !model.ValidPriority(priority) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown priority %q", priority)}
	}
	if !model.ValidStage(stage) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown stage %q", stage)}
	}

	date := truncateDate(p.Date)

	// Проверка дубликатов выполняется только при создании
	existing, err := s.tasks.FindDuplicate(ctx, ownerID, title, description, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateTaskError{Existing: existing}
	}

	task := &model.Task{
		Title:       title,
		Description: description,
		Date:        date,
		Priority:    priority,
		Stage:       stage,
		IsTrashed:   false,
		UserID:      ownerID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	text := fmt.Sprintf(
		"New task has been assigned to you. The task priority is set a %s priority, so check and act accordingly. The task date is %s. Thank you!!!",
		priority, date.Format("Mon Jan 02 2006"),
	)

	actor := ownerID
	activity := &model.TaskActivity{
		TaskID:   task.ID,
		UserID:   &actor,
		Type:     model.ActivityAssigned,
		Activity: text,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	notice := &model.Notice{
		UserID:   ownerID,
		TaskID:   task.ID,
		Text:     text,
		NotiType: model.NotiAlert,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies the supplied fields to an existing task. Duplicate
// detection is not re-run here.
func (s *TaskService) Update(ctx context.Context, id uint, p UpdateTaskParams) error {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if p.Title != nil {
		title := normalizeText(*p.Title)
		if title == "" {
			return &ValidationError{Message: "title cannot be empty"}
		}
		task.Title = title
	}
	if p.Description != nil {
		task.Description = normalizeText(*p.Description)
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return &ValidationError{Message: "due date cannot be empty"}
		}
		task.Date = truncateDate(*p.Date)
	}
	if p.Priority != nil {
		priority := normalizeText(*p.Priority)
		if !model.ValidPriority(priority) {
			return &ValidationError{Message: fmt.Sprintf("unknown priority %q", priority)}
		}
		task.Priority = priority
	}
	if p.Stage != nil {
		stage := normalizeText(*p.Stage)
		if !model.ValidStage(stage) {
			return &ValidationError{Message: fmt.Sprintf("unknown stage %q", stage)}
		}
		task.Stage = stage
	}

	return s.tasks.Save(ctx, task)
}

// ChangeStage moves the task to a new stage. "completed" is terminal: the
// task is copied into the archive and removed from the active table, so a
// successful response may mean the task no longer exists at this identifier.
func (s *TaskService) ChangeStage(ctx context.Context, id uint, stage string) error {
	if id == 0 {
		return &ValidationError{Message: "task id is required"}
	}
	stage = normalizeText(stage)
	if stage == "" {
		return &ValidationError{Message: "stage is required"}
	}
	if !model.ValidStage(stage) {
		return &ValidationError{Message: fmt.Sprintf("unknown stage %q", stage)}
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	task.Stage = stage
	if stage == model.StageCompleted {
		return s.tasks.ArchiveCompleted(ctx, task)
	}
	return s.tasks.Save(ctx, task)
}

// Trash soft-deletes the task; it stays recoverable until hard-deleted
func (s *TaskService) Trash(ctx context.Context, id uint) error {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	task.IsTrashed = true
	return s.tasks.Save(ctx, task)
}

// DeleteOrRestore hard-deletes or restores tasks from the trashed set. Bulk
// forms are scoped to the owner. Unknown action types fail closed.
func (s *TaskService) DeleteOrRestore(ctx context.Context, ownerID, taskID uint, actionType string) error {
	switch actionType {
	case ActionDelete:
		if taskID == 0 {
			return &ValidationError{Message: "task id is required"}
		}
		if err := s.tasks.Delete(ctx, taskID); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return &NotFoundError{Resource: "task", ID: taskID}
			}
			return err
		}
		return nil
	case ActionDeleteAll:
		return s.tasks.DeleteTrashed(ctx, ownerID)
	case ActionRestore:
		if taskID == 0 {
			return &ValidationError{Message: "task id is required"}
		}
		if err := s.tasks.Restore(ctx, taskID); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return &NotFoundError{Resource: "task", ID: taskID}
			}
			return err
		}
		return nil
	case ActionRestoreAll:
		return s.tasks.RestoreTrashed(ctx, ownerID)
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown actionType %q", actionType)}
	}
}

// PostActivity appends an event to the task history. Empty type defaults
// to "assigned".
func (s *TaskService) PostActivity(ctx context.Context, taskID, actorID uint, activityType, text string) error {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return err
	}

	activityType = normalizeText(activityType)
	if activityType == "" {
		activityType = model.ActivityAssigned
	}
	if !model.ValidActivityType(activityType) {
		return &ValidationError{Message: fmt.Sprintf("unknown activity type %q", activityType)}
	}

	actor := actorID
	return s.activities.Create(ctx, &model.TaskActivity{
		TaskID:   taskID,
		UserID:   &actor,
		Type:     activityType,
		Activity: text,
	})
}

// ListActivities retrieves the task history, most recent first. An absent
// task is NotFound; an existing task with no history yields an empty list.
func (s *TaskService) ListActivities(ctx context.Context, taskID uint) ([]model.TaskActivity, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.activities.ListByTask(ctx, taskID)
}

// List retrieves tasks scoped to the owner (all owners for admins), with
// optional stage filter and case-insensitive substring search over
// title/stage/priority.
func (s *TaskService) List(ctx context.Context, ownerID uint, isAdmin bool, stage string, isTrashed bool, search string) ([]model.Task, error) {
	return s.tasks.List(ctx, repository.TaskListFilter{
		OwnerID:    ownerID,
		AdminScope: isAdmin,
		Stage:      normalizeText(stage),
		IsTrashed:  isTrashed,
		Search:     strings.TrimSpace(search),
	})
}

// Get retrieves one task together with its activity history
func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, []model.TaskActivity, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	activities, err := s.activities.ListByTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return task, activities, nil
}

func (s *TaskService) getTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, &NotFoundError{Resource: "task", ID: id}
		}
		return nil, err
	}
	return task, nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// truncateDate discards the time-of-day, keeping the calendar date
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
