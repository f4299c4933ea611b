package model

import (
	"time"
)

// Notice представляет уведомление пользователя о событии задачи
type Notice struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	TaskID    uint      `gorm:"not null;index"`
	Text      string    `gorm:"type:text"`
	NotiType  string    `gorm:"not null;default:alert;check:noti_type IN ('alert', 'message')"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

const (
	NotiAlert   = "alert"
	NotiMessage = "message"
)
