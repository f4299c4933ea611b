package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/middleware"
	"taskhub/internal/model"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskLifecycle объединяет операции жизненного цикла задач и дашборда
type TaskLifecycle interface {
	Create(ctx context.Context, ownerID uint, p service.CreateTaskParams) (*model.Task, error)
	Update(ctx context.Context, id uint, p service.UpdateTaskParams) error
	ChangeStage(ctx context.Context, id uint, stage string) error
	Trash(ctx context.Context, id uint) error
	DeleteOrRestore(ctx context.Context, ownerID, taskID uint, actionType string) error
	PostActivity(ctx context.Context, taskID, actorID uint, activityType, text string) error
	ListActivities(ctx context.Context, taskID uint) ([]model.TaskActivity, error)
	List(ctx context.Context, ownerID uint, isAdmin bool, stage string, isTrashed bool, search string) ([]model.Task, error)
	Get(ctx context.Context, id uint) (*model.Task, []model.TaskActivity, error)
	Summarize(ctx context.Context, ownerID uint, isAdmin bool) (*service.DashboardSummary, error)
}

var _ TaskLifecycle = (*service.TaskService)(nil)

type TaskHandler struct {
	svc TaskLifecycle
}

func NewTaskHandler(svc TaskLifecycle) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date" binding:"required"`
	Priority    string     `json:"priority" binding:"required"`
	Stage       string     `json:"stage" binding:"required"`
}

// TaskUpdateRequest представляет частичное обновление: nil-поля не меняются
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Priority    *string    `json:"priority"`
	Stage       *string    `json:"stage"`
}

// StageRequest представляет запрос на смену этапа задачи
type StageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// ActivityRequest представляет запрос на добавление события в историю задачи
type ActivityRequest struct {
	Type     string `json:"type"`
	Activity string `json:"activity"`
}

// Create создает новую задачу текущего пользователя
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	task, err := h.svc.Create(c.Request.Context(), ownerID, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        *req.Date,
		Priority:    req.Priority,
		Stage:       req.Stage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": true, "task": task, "message": "Task created successfully."})
}

// Update обновляет переданные поля задачи
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	err := h.svc.Update(c.Request.Context(), id, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Priority:    req.Priority,
		Stage:       req.Stage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Task updated successfully."})
}

// ChangeStage меняет этап задачи; "completed" уводит её в архив
func (h *TaskHandler) ChangeStage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	if err := h.svc.ChangeStage(c.Request.Context(), id, req.Stage); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Task stage changed successfully."})
}

// Trash помечает задачу как удалённую в корзину
func (h *TaskHandler) Trash(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Trash(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Task trashed successfully."})
}

// DeleteRestore выполняет delete / deleteAll / restore / restoreAll над корзиной
func (h *TaskHandler) DeleteRestore(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var taskID uint
	if idStr := c.Param("id"); idStr != "" {
		parsed, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid task ID format"})
			return
		}
		taskID = uint(parsed)
	}

	actionType := c.Query("actionType")
	if err := h.svc.DeleteOrRestore(c.Request.Context(), ownerID, taskID, actionType); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Operation performed successfully."})
}

// List возвращает задачи текущего пользователя (все — для администратора)
func (h *TaskHandler) List(c *gin.Context) {
	ownerID, isAdmin, ok := currentUser(c)
	if !ok {
		return
	}

	stage := c.Query("stage")
	isTrashed := c.Query("isTrashed") == "true"
	search := c.Query("search")

	tasks, err := h.svc.List(c.Request.Context(), ownerID, isAdmin, stage, isTrashed, search)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "tasks": tasks})
}

// GetByID возвращает задачу вместе с её историей
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, activities, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "task": task, "activities": activities})
}

// Dashboard возвращает агрегированную статистику по активным задачам
func (h *TaskHandler) Dashboard(c *gin.Context) {
	ownerID, isAdmin, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), ownerID, isAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     true,
		"totalTasks": summary.TotalTasks,
		"last10Task": summary.RecentTasks,
		"tasks":      summary.StageCounts,
		"graphData":  summary.PriorityCounts,
		"users":      summary.ActiveUsers,
		"message":    "Successfully.",
	})
}

// PostActivity добавляет событие в историю задачи
func (h *TaskHandler) PostActivity(c *gin.Context) {
	actorID, _, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	if err := h.svc.PostActivity(c.Request.Context(), id, actorID, req.Type, req.Activity); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Activity posted successfully."})
}

// ListActivities возвращает историю задачи, новые записи первыми
func (h *TaskHandler) ListActivities(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	activities, err := h.svc.ListActivities(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "activities": activities})
}

// respondServiceError преобразует ошибки сервиса в HTTP-ответ
func respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var duplicateErr *service.DuplicateTaskError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"status": false, "message": notFoundErr.Error()})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{
			"status":  false,
			"message": "Task with the same title, description and due date already exists.",
			"task":    duplicateErr.Existing,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid task ID format"})
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (uint, bool, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Not authenticated"})
		return 0, false, false
	}

	id, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Invalid user ID format"})
		return 0, false, false
	}

	isAdmin, _ := c.Get(middleware.IsAdminKey)
	admin, _ := isAdmin.(bool)
	return id, admin, true
}
