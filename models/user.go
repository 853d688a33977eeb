package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Email    string `gorm:"unique;not null"`
	Phone    string
	Password string `gorm:"not null"`
	Postcode string
	City     string
	Street   string
	IsAdmin  bool `gorm:"not null;default:false"`
	Orders   []Order
}
