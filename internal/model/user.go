package model

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"not null"`
	Title          string    `gorm:"not null"`
	Role           string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null" json:"-"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}
