package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginToken struct {
	gorm.Model
	Token          string `gorm:"index"`
	ExpirationTime time.Time
	UserID         uint
	IsAdmin        bool
}
