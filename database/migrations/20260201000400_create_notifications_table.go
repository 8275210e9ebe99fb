package migrations

import (
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/migration"
)

func init() {
	migration.Register("20260201000400_create_notifications_table", &createNotificationsTable{})
}

type createNotificationsTable struct{}

func (createNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (createNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Notification{})
}
