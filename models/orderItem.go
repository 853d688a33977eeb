package models

import "gorm.io/gorm"

// ProductName and Price are snapshots taken at order time, so later
// product edits never rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID     uint   `gorm:"index;not null"`
	ProductID   uint   `gorm:"not null"`
	ProductName string `gorm:"not null"`
	Price       uint   `gorm:"not null"`
	Quantity    uint   `gorm:"not null"`
	Subtotal    uint   `gorm:"not null"`
}
