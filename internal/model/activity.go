package model

import (
	"time"
)

// TaskActivity представляет событие в истории задачи, записи не изменяются
type TaskActivity struct {
	ID        uint      `gorm:"primaryKey"`
	TaskID    uint      `gorm:"not null;index"`
	UserID    *uint     `gorm:"index"`
	Type      string    `gorm:"not null;default:assigned;check:type IN ('assigned', 'started', 'in progress', 'bug', 'completed', 'commented')"`
	Activity  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task Task  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	User *User `gorm:"foreignKey:UserID"`
}

// Типы событий
const (
	ActivityAssigned   = "assigned"
	ActivityStarted    = "started"
	ActivityInProgress = "in progress"
	ActivityBug        = "bug"
	ActivityCompleted  = "completed"
	ActivityCommented  = "commented"
)

func ValidActivityType(t string) bool {
	switch t {
	case ActivityAssigned, ActivityStarted, ActivityInProgress,
		ActivityBug, ActivityCompleted, ActivityCommented:
		return true
	}
	return false
}
