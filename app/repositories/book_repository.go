package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
)

// BookRepository queries the book catalogue.
type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *BookRepository) ByShop(ctx context.Context, shopID uint) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&books).Error
	return books, err
}
