package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/bookhive/bookhive/pkg/logger"
)

func init() {
	register(&demoSeeder{})
}

// demoSeeder creates one admin, one seller with a stocked shop, and two
// customers following it. Running it twice is a no-op.
type demoSeeder struct{}

func (demoSeeder) Seed(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@bookhive.test").First(&existing).Error
	if err == nil {
		logger.Info("seed: demo data already present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	admin := models.User{
		Email: "admin@bookhive.test", Password: hash, Name: "Admin",
		Status: true, Role: models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	if err := db.Create(&models.Admin{UserID: admin.ID}).Error; err != nil {
		return err
	}

	sellerUser := models.User{
		Email: "seller@bookhive.test", Password: hash, Name: "Sam Pages",
		Status: true, Role: models.RoleSeller,
	}
	if err := db.Create(&sellerUser).Error; err != nil {
		return err
	}
	seller := models.Seller{
		UserID: sellerUser.ID,
		Shop:   models.Shop{Name: "Sam Pages's Shop"},
	}
	if err := db.Create(&seller).Error; err != nil {
		return err
	}

	book := models.Book{
		ShopID:      seller.Shop.ID,
		Abstraction: "The Go Programming Language",
		Genre:       models.JoinGenres([]string{"Programming", "Reference"}),
		Price:       39.99,
	}
	if err := db.Create(&book).Error; err != nil {
		return err
	}

	for _, name := range []struct{ email, name string }{
		{"alice@bookhive.test", "Alice Reader"},
		{"bob@bookhive.test", "Bob Browser"},
	} {
		user := models.User{
			Email: name.email, Password: hash, Name: name.name,
			Status: true, Role: models.RoleCustomer,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		customer := models.Customer{UserID: user.ID}
		if err := db.Create(&customer).Error; err != nil {
			return err
		}
		err := db.Model(&customer).
			Association("Shops").
			Append(&models.Shop{Model: gorm.Model{ID: seller.Shop.ID}})
		if err != nil {
			return err
		}
	}

	logger.Info("seed: demo data created")
	return nil
}
