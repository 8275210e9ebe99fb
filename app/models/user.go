package models

import "gorm.io/gorm"

// User is the base account record shared by all roles.
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Name        string `gorm:"size:255;not null" json:"name"`
	PhoneNumber string `gorm:"size:50" json:"phoneNumber"`
	ImageURL    string `gorm:"size:512" json:"imageUrl"`
	Status      bool   `gorm:"default:true" json:"status"`
	Role        Role   `gorm:"size:20;not null;index" json:"role"`
}

// Profile is the role-specific projection of a User. Admin, Seller and
// Customer each implement it; auth operations return the interface so callers
// never branch on the concrete type. AccountID is the base User ID; the
// session token always carries the account, never the projection.
type Profile interface {
	ProfileID() uint
	AccountID() uint
	ProfileRole() Role
}

// Admin is the staff projection. It carries no extra fields beyond the link
// to its account.
type Admin struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`
	User   User `json:"user"`
}

func (a Admin) ProfileID() uint   { return a.ID }
func (a Admin) AccountID() uint   { return a.UserID }
func (a Admin) ProfileRole() Role { return RoleAdmin }

// Seller owns exactly one shop, provisioned at sign-up.
type Seller struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`
	User   User `json:"user"`
	Shop   Shop `gorm:"foreignKey:SellerID" json:"shop"`
}

func (s Seller) ProfileID() uint   { return s.ID }
func (s Seller) AccountID() uint   { return s.UserID }
func (s Seller) ProfileRole() Role { return RoleSeller }

// Customer follows shops through the shop_followers join table.
type Customer struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User   User   `json:"user"`
	Shops  []Shop `gorm:"many2many:shop_followers;" json:"shops"`
}

func (c Customer) ProfileID() uint   { return c.ID }
func (c Customer) AccountID() uint   { return c.UserID }
func (c Customer) ProfileRole() Role { return RoleCustomer }
