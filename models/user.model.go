package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name      string     `json:"name" gorm:"default:''"`
	Email     string     `json:"email" gorm:"unique;not null"`
	Role      string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Password  string     `json:"-" gorm:"not null"`
	LastLogin *time.Time `json:"last_login"`
	IsDeleted bool       `gorm:"default:false"`
}
