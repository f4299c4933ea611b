package model

import (
	"time"
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Date        time.Time `gorm:"not null;index"`
	Priority    string    `gorm:"not null;default:normal;check:priority IN ('high', 'medium', 'normal', 'low')"`
	Stage       string    `gorm:"not null;default:todo;check:stage IN ('todo', 'in progress', 'completed')"`
	IsTrashed   bool      `gorm:"not null;default:false;index"`
	UserID      uint      `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:UserID"`
}

// Приоритеты задачи
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// Этапы жизненного цикла задачи
const (
	StageTodo       = "todo"
	StageInProgress = "in progress"
	StageCompleted  = "completed" // терминальный: задача уходит в архив
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

func ValidStage(s string) bool {
	switch s {
	case StageTodo, StageInProgress, StageCompleted:
		return true
	}
	return false
}
