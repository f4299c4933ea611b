package model

import (
	"time"
)

// ArchivedTask хранит завершённую задачу после удаления из активной таблицы
type ArchivedTask struct {
	ID          uint `gorm:"primaryKey"`
	TaskID      uint `gorm:"not null;index"`
	Title       string
	Description string
	Date        time.Time
	Priority    string
	Stage       string
	IsTrashed   bool      `gorm:"not null;default:true"`
	UserID      uint      `gorm:"not null;index"`
	ArchivedAt  time.Time `gorm:"autoCreateTime"`
}
