package migrations

import (
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/pkg/migration"
)

func init() {
	migration.Register("20260201000300_create_books_table", &createBooksTable{})
}

type createBooksTable struct{}

func (createBooksTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Book{})
}

func (createBooksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Book{})
}
