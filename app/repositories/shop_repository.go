package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
)

// ShopRepository queries shops and the follower join table.
type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) All(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Preload("Books").
		Preload("Followers").
		Find(&shops).Error
	return shops, err
}

func (r *ShopRepository) ByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Preload("Books").
		Preload("Followers").
		Preload("Followers.User").
		First(&shop, id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *ShopRepository) IsFollowing(ctx context.Context, customerID, shopID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("shop_followers").
		Where("customer_id = ? AND shop_id = ?", customerID, shopID).
		Count(&count).Error
	return count > 0, err
}

func (r *ShopRepository) AddFollower(ctx context.Context, customer *models.Customer, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Model(customer).
		Association("Shops").
		Append(&models.Shop{Model: gorm.Model{ID: shop.ID}})
}

func (r *ShopRepository) RemoveFollower(ctx context.Context, customer *models.Customer, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Model(customer).
		Association("Shops").
		Delete(&models.Shop{Model: gorm.Model{ID: shop.ID}})
}

// FollowedBy returns the shops a customer follows, books included.
func (r *ShopRepository) FollowedBy(ctx context.Context, customerID uint) ([]models.Shop, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Shops").
		Preload("Shops.Books").
		First(&customer, customerID).Error
	if err != nil {
		return nil, err
	}
	return customer.Shops, nil
}
