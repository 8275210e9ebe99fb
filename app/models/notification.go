package models

import "gorm.io/gorm"

// Notification is a per-customer inbox entry, inserted synchronously when a
// followed shop publishes a new book.
type Notification struct {
	gorm.Model
	CustomerID uint   `gorm:"not null;index" json:"customerId"`
	Content    string `gorm:"size:512;not null" json:"content"`
	Read       bool   `gorm:"default:false" json:"read"`
}
