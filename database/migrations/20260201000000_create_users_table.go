package migrations

import (
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/migration"
)

func init() {
	migration.Register("20260201000000_create_users_table", &createUsersTable{})
}

type createUsersTable struct{}

func (createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Admin{})
}

func (createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Admin{}, &models.User{})
}
