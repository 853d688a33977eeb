package models

import "gorm.io/gorm"

// Exactly one of UserID and GuestEmail is set; rows are never
// updated after the placing transaction commits.
type Order struct {
	gorm.Model
	UserID          *uint
	GuestEmail      *string
	OrderItems      []OrderItem
	Total           uint   `gorm:"not null"`
	BillingAddress  string `gorm:"not null"`
	ShippingAddress string `gorm:"not null"`
	PaymentMethod   string `gorm:"not null"`
}
