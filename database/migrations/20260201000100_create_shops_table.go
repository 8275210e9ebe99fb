package migrations

import (
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/migration"
)

func init() {
	migration.Register("20260201000100_create_shops_table", &createShopsTable{})
}

type createShopsTable struct{}

func (createShopsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Shop{}, &models.Seller{})
}

func (createShopsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Seller{}, &models.Shop{})
}
