package migrations

import (
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/migration"
)

func init() {
	migration.Register("20260201000200_create_customers_table", &createCustomersTable{})
}

type createCustomersTable struct{}

// Up also creates the shop_followers join table declared on Customer.Shops.
func (createCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (createCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("shop_followers", &models.Customer{})
}
