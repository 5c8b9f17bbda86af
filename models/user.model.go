package models

import (
	"time"

	"gorm.io/gorm"
)

// Role enum values
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage string    `gorm:"default:''"`
	Name         string    `gorm:"default:''"`
	Email        string    `gorm:"unique;not null"`
	Role         string    `gorm:"default:'USER'"` // USER, ADMIN
	Password     string    `gorm:"not null"`
	LastLogin    time.Time `gorm:"default:NULL"`
	IsDeleted    bool      `gorm:"default:false"`
}
